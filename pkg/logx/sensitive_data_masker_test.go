package logx_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"coin_auction/pkg/logx"
)

func TestSensitiveDataMaskerMask(t *testing.T) {
	rq := require.New(t)

	masker := logx.NewSensitiveDataMasker()

	testCases := []struct {
		name   string
		input  []byte
		output []byte
	}{
		{
			name:   "Password",
			input:  []byte(`{"hello":"world","password":"abc123"}`),
			output: []byte(`{"hello":"world","password":"[MASKED]"}`),
		},
		{
			name:   "Password capital letter",
			input:  []byte(`{"hello":"world","Password":"abc123"}`),
			output: []byte(`{"hello":"world","Password":"[MASKED]"}`),
		},
		{
			name:   "Access token",
			input:  []byte(`{"accessToken":"eyJhbGciOiJFUzI1NiIsInR5cC","refreshToken":"eyJhbGciOiJFUzI1NiIsInR5cCI6IkpXVCJ9"}`),
			output: []byte(`{"accessToken":"[MASKED]","refreshToken":"[MASKED]"}`),
		},
		{
			name:   "Participant id, email and phone",
			input:  []byte(`{"participantId": "p-100", "contact": {"email": "john@doe.com", "phone": "+79990001122"}, "amount": 150000}`),
			output: []byte(`{"participantId": "[MASKED]", "contact": {"email": "[MASKED]", "phone": "[MASKED]"}, "amount": 150000}`),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			output := masker.Mask(tc.input)

			rq.Equal(tc.output, output, "%s vs %s", tc.output, output)
		})
	}
}
