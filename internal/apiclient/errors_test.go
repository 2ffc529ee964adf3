package apiclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractErrorMessage(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		statusText string
		want       string
	}{
		{
			name: "detail string",
			body: `{"detail": "Invalid credentials"}`,
			want: "Invalid credentials",
		},
		{
			name: "detail list joined",
			body: `{"detail": [{"msg": "people must be positive"}, {"msg": "date required"}]}`,
			want: "people must be positive, date required",
		},
		{
			name: "message field",
			body: `{"message": "Something broke"}`,
			want: "Something broke",
		},
		{
			name:       "unparseable body falls back to status",
			body:       `<html>Bad Gateway</html>`,
			statusText: "502 Bad Gateway",
			want:       "502 Bad Gateway",
		},
		{
			name:       "empty json falls back to status",
			body:       `{}`,
			statusText: "500 Internal Server Error",
			want:       "500 Internal Server Error",
		},
		{
			name: "nothing at all",
			body: ``,
			want: "unknown error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractErrorMessage([]byte(tt.body), tt.statusText)
			assert.Equal(t, tt.want, got)
		})
	}
}
