package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPassword_Valid(t *testing.T) {
	for _, p := range []string{"Abcdef1!", "Sup3r$ecret", "P4ss[word]x", "Aa1,bbbb", "Ab1!aaañ"} {
		res := Password(p)
		assert.True(t, res.Valid, "password %q should be valid", p)
		assert.Empty(t, res.Errors)
	}
}

func TestPassword_Required(t *testing.T) {
	res := Password("")
	assert.False(t, res.Valid)
	assert.Equal(t, []string{"Password is required"}, res.Errors)
}

func TestPassword_AccumulatesAllErrors(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     []string
	}{
		{
			name:     "missing digit and special",
			password: "Abcdefgh",
			want:     []string{"One special character", "One number"},
		},
		{
			name:     "short, no upper, no special",
			password: "abc1",
			want:     []string{"Use 8 or more characters", "One Uppercase character", "One special character"},
		},
		{
			name:     "all five rules unmet except required",
			password: " ",
			want: []string{
				"Use 8 or more characters",
				"One Uppercase character",
				"One lowercase character",
				"One special character",
				"One number",
			},
		},
		{
			name:     "only length",
			password: "Ab1!x",
			want:     []string{"Use 8 or more characters"},
		},
		{
			// 7 characters but 8 bytes; the length rule counts characters.
			name:     "multibyte rune does not satisfy the length rule",
			password: "Ñb1!aaa",
			want:     []string{"Use 8 or more characters", "One Uppercase character"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Password(tt.password)
			assert.False(t, res.Valid)
			assert.Equal(t, tt.want, res.Errors)
		})
	}
}

func TestEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
		err   string
	}{
		{"a@b.com", true, ""},
		{"user.name@sub.example.co", true, ""},
		{"", false, "Email is required"},
		{"no-at-sign", false, "Invalid email format"},
		{"a@b", false, "Invalid email format"},
		{"a b@c.com", false, "Invalid email format"},
		{"@b.com", false, "Invalid email format"},
	}

	for _, tt := range tests {
		res := Email(tt.email)
		assert.Equal(t, tt.valid, res.Valid, "email %q", tt.email)
		if !tt.valid {
			assert.Equal(t, tt.err, res.Error(), "email %q", tt.email)
		}
	}
}

func TestUsername(t *testing.T) {
	tests := []struct {
		username string
		valid    bool
		err      string
	}{
		{"abc", true, ""},
		{"user_123", true, ""},
		{"abcdefghijklmnopqrstuvwxyz1234", true, ""}, // exactly 30
		{"", false, "Username is required"},
		{"ab", false, "Username must be at least 3 characters"},
		{"ñé", false, "Username must be at least 3 characters"}, // 2 characters, 4 bytes
		{"ñññ", false, "Username can only contain letters, numbers, and underscores"},
		{"abcdefghijklmnopqrstuvwxyz12345", false, "Username must be less than 30 characters"},
		{"bad-name", false, "Username can only contain letters, numbers, and underscores"},
		{"has space", false, "Username can only contain letters, numbers, and underscores"},
	}

	for _, tt := range tests {
		res := Username(tt.username)
		assert.Equal(t, tt.valid, res.Valid, "username %q", tt.username)
		if !tt.valid {
			assert.Equal(t, tt.err, res.Error(), "username %q", tt.username)
		}
	}
}
