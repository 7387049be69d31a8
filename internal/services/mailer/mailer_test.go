package mailer_test

import (
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/estate-aggregator/internal/services/mailer"
)

type timeoutError struct{}

func (timeoutError) Error() string   { return "dial tcp 127.0.0.1:587: i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

var _ net.Error = timeoutError{}

func TestClassifyDeliveryError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "network error",
			err:  timeoutError{},
			want: "Could not connect to email server. Please check your internet connection.",
		},
		{
			name: "dial failure",
			err:  errors.New("failed to dial SMTP server: connection refused"),
			want: "Could not connect to email server. Please check your internet connection.",
		},
		{
			name: "rejected credentials",
			err:  errors.New("535 5.7.8 Username and Password not accepted"),
			want: "Invalid email credentials. Please check your email configuration.",
		},
		{
			name: "invalid login",
			err:  errors.New("Invalid login or password"),
			want: "Invalid email credentials. Please check your email configuration.",
		},
		{
			name: "auth handshake failure",
			err:  errors.New("smtp auth failed: unknown mechanism"),
			want: "Email authentication failed. Please check your email credentials.",
		},
		{
			name: "anything else",
			err:  errors.New("short write"),
			want: "Failed to send verification code. Please try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mailer.ClassifyDeliveryError(tt.err))
		})
	}
}
