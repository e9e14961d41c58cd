package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentage(t *testing.T) {
	tests := []struct {
		name         string
		count, total int
		expected     float64
	}{
		{name: "one third", count: 1, total: 3, expected: 33.333},
		{name: "two thirds", count: 2, total: 3, expected: 66.667},
		{name: "one sixth", count: 1, total: 6, expected: 16.667},
		{name: "whole", count: 70, total: 70, expected: 100},
		{name: "zero total", count: 0, total: 0, expected: 0},
		{name: "district population", count: 2, total: 1234, expected: 0.162},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Percentage(tt.count, tt.total))
		})
	}
}

func TestAgeBands(t *testing.T) {
	bands := AgeBands()
	var labels []string
	for _, b := range bands {
		labels = append(labels, b.Label())
	}
	assert.Equal(t, []string{
		"16 - 19", "20 - 24", "25 - 29", "30 - 34", "35 - 39", "40 - 44",
		"45 - 49", "50 - 54", "55 - 59", "60 - 64", "65 - 69", "70 - 74",
		"75 - 79", "80 - 84", "85 - 89", "90 - 300",
	}, labels)

	assert.True(t, bands[1].Contains(23))
	assert.True(t, bands[len(bands)-1].Contains(105))
	assert.False(t, bands[0].Contains(15))
}
