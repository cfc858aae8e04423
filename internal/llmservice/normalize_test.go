package llmservice

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Hello\nWorld", "Hello\nWorld"},
		{"final newline kept", "package main\n\nfunc main() {}\n", "package main\n\nfunc main() {}\n"},
		{"json newline kept", "{\"a\": 1}\n", "{\"a\": 1}\n"},
		{"fenced", "```\nHello\nWorld\n```", "Hello\nWorld\n"},
		{"fenced with info", "```python\nprint(1)\n```\n", "print(1)\n"},
		{"tilde fence", "~~~\na\n~~~", "a\n"},
		{"think", "<think>\nplan\n</think>\nResult", "Result"},
		{"think then fence", "<think>x</think>```\nbody\n```", "body\n"},
		{"fence among prose", "Here you go:\n```\nbody\n```", "Here you go:\n```\nbody\n```"},
		{"two fences", "```\na\n```\n\n```\nb\n```", "```\na\n```\n\n```\nb\n```"},
		{"slides kept", "Intro\n\nConclusion", "Intro\n\nConclusion"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("%s: Normalize(%q) = %q, want %q", tt.name, tt.in, got, tt.want)
		}
	}
}
