package x11

import "testing"

func TestParseMethod(t *testing.T) {
	cases := []struct {
		in   string
		want Method
	}{
		{"direct", MethodDirect},
		{"configure", MethodConfigure},
		{"message", MethodMessage},
		{"MESSAGE", MethodMessage},
		{"Configure", MethodConfigure},
	}
	for _, tc := range cases {
		got, err := ParseMethod(tc.in)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("expected %v for %q, got %v", tc.want, tc.in, got)
		}
	}

	for _, bad := range []string{"", "ewmh", "config"} {
		if _, err := ParseMethod(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestMethodString_RoundTrips(t *testing.T) {
	for _, m := range []Method{MethodDirect, MethodConfigure, MethodMessage} {
		parsed, err := ParseMethod(m.String())
		if err != nil {
			t.Fatalf("unexpected error for %v: %v", m, err)
		}
		if parsed != m {
			t.Fatalf("expected %v, got %v", m, parsed)
		}
	}
}

func TestMoveResizeMessageFlags(t *testing.T) {
	// Gravity in the low byte, presence of x/y/w/h in bits 8-11, pager
	// source indication in bits 12-15.
	flags := uint32(1) | moveResizePresenceAll | moveResizeSourcePager
	if flags != 0x2F01 {
		t.Fatalf("expected flags 0x2F01, got %#x", flags)
	}
}
