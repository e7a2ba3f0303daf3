package textutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSensitiveAccount(t *testing.T) {
	tests := []struct {
		account  string
		expected bool
	}{
		{"보통예금", true},
		{"정기 적금", true},
		{"단기차입금", true},
		{"Bank Deposit", true},
		{"Long-term Loan", true},
		{"외상매출금", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.account, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsSensitiveAccount(tt.account))
		})
	}
}

func TestMaskAccountNumbers(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "hyphenated", input: "국민 123-4567-1234 이체", expected: "국민 ***-****-1234 이체"},
		{name: "plain digits", input: "acct 110234561234", expected: "acct ********1234"},
		{name: "short number kept", input: "전표 12345", expected: "전표 12345"},
		{name: "iso date kept", input: "2024-01-05 입금", expected: "2024-01-05 입금"},
		{name: "two numbers", input: "111-222333 → 444555-666", expected: "***-**2333 → *****5-666"},
		{name: "no digits", input: "이자수익", expected: "이자수익"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MaskAccountNumbers(tt.input))
		})
	}
}

func TestMaskAccountNumbers_Idempotent(t *testing.T) {
	once := MaskAccountNumbers("신한 110-123-456789")
	assert.Equal(t, once, MaskAccountNumbers(once))
}
