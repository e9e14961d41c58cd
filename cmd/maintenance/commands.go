package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	dedupService "tally/internal/dedup/service"
	participation "tally/internal/participation/models"
	id "tally/pkg/domain"
)

// opener builds the service a command runs against, plus its cleanup.
type opener func(ctx context.Context) (*dedupService.Service, func(), error)

func newRootCmd(open opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "maintenance",
		Short:         "Repair participation records across tenants",
		SilenceUsage: true,
	}
	root.AddCommand(
		taskCmd(open, dedupService.TaskDedupVoters, "Remove duplicate voters, keeping the earliest per poll and user",
			func(svc *dedupService.Service) dedupService.Task {
				return svc.DeduplicateAllVoters
			}),
		taskCmd(open, dedupService.TaskDedupAnswers, "Remove duplicate answers, keeping the earliest per question, author and option",
			func(svc *dedupService.Service) dedupService.Task {
				return func(ctx context.Context, tenant id.TenantID) (int, error) {
					return svc.DeduplicateAnswers(ctx, tenant, participation.Scope{})
				}
			}),
		taskCmd(open, dedupService.TaskBackfillOptions, "Set the option of answers whose text matches exactly one option title",
			func(svc *dedupService.Service) dedupService.Task {
				return func(ctx context.Context, tenant id.TenantID) (int, error) {
					return svc.BackfillOptionIDs(ctx, tenant, participation.Scope{})
				}
			}),
	)
	return root
}

// taskCmd runs one maintenance task on every tenant and prints a line per
// tenant. The command fails if any tenant failed.
func taskCmd(open opener, name, short string, build func(*dedupService.Service) dedupService.Task) *cobra.Command {
	return &cobra.Command{
		Use:   strings.ReplaceAll(name, "_", "-"),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := open(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			results, err := svc.RunOnEachTenant(ctx, name, build(svc))
			out := cmd.OutOrStdout()
			total := 0
			for _, r := range results {
				if r.Err != nil {
					fmt.Fprintf(out, "%s\tfailed\t%v\n", r.TenantID, r.Err)
					continue
				}
				total += r.Count
				fmt.Fprintf(out, "%s\t%d\n", r.TenantID, r.Count)
			}
			fmt.Fprintf(out, "%s: %d across %d tenants\n", name, total, len(results))
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			return nil
		},
	}
}
