package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFromDBURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "with port", url: "postgresql://u:p@db:6543/bkc", want: "db:6543"},
		{name: "default port", url: "postgresql://u:p@db/bkc", want: "db:5432"},
		{name: "no match", url: "mysql://db/bkc", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractFromDBURL(tt.url))
		})
	}
}

func TestExtractFromNatsURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "with port", url: "nats://localhost:4223", want: "localhost:4223"},
		{name: "default port", url: "nats://broker", want: "broker:4222"},
		{name: "credentials", url: "nats://u:p@broker:4000", want: "broker:4000"},
		{name: "no match", url: "tls://broker", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractFromNatsURL(tt.url))
		})
	}
}
