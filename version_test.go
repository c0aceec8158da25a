package depsolver

import "testing"

func TestParseVersionNil(t *testing.T) {
	v, err := ParseVersion(nil)
	if err != nil {
		t.Fatalf("ParseVersion(nil) returned error: %s", err)
	}
	if !v.IsNoVersion() {
		t.Error("ParseVersion(nil) should be NoVersion")
	}
}

func TestParseVersionEmptyString(t *testing.T) {
	v, err := ParseVersion("")
	if err != nil {
		t.Fatalf("ParseVersion(\"\") returned error: %s", err)
	}
	if !v.IsNoVersion() {
		t.Error("ParseVersion(\"\") should be NoVersion")
	}
}

func TestParseVersionRejectsGarbage(t *testing.T) {
	if _, err := ParseVersion("not-a-version!!"); err == nil {
		t.Error("ParseVersion should reject unparseable text")
	}
}

func TestVersionCompare(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "2.0.0", -1},
		{"2.0.0", "1.0.0", 1},
		{"1.2.3", "1.2.3", 0},
		{"1.2.3", "1.2.4", -1},
		{"1.10.0", "1.9.0", 1},
	}
	for _, c := range cases {
		a, b := MustParseVersion(c.a), MustParseVersion(c.b)
		got := a.Compare(b)
		if sign(got) != sign(c.want) {
			t.Errorf("Compare(%s, %s) = %d, want sign %d", c.a, c.b, got, c.want)
		}
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

func TestVersionLessEqual(t *testing.T) {
	v1 := MustParseVersion("1.0.0")
	v2 := MustParseVersion("1.0.1")
	if !v1.Less(v2) {
		t.Error("1.0.0 should be less than 1.0.1")
	}
	if v2.Less(v1) {
		t.Error("1.0.1 should not be less than 1.0.0")
	}
	if !v1.Equal(MustParseVersion("1.0.0")) {
		t.Error("two independently parsed 1.0.0 values should be equal")
	}
}

func TestNoVersionNeverEqualsReal(t *testing.T) {
	if NoVersion.Equal(MustParseVersion("0.0.0")) {
		t.Error("NoVersion should not equal the real version 0.0.0")
	}
	if !NoVersion.IsNoVersion() {
		t.Error("NoVersion.IsNoVersion() should be true")
	}
}

func TestVersionComponents(t *testing.T) {
	v := MustParseVersion("1.2.3")
	if v.Major() != 1 || v.Minor() != 2 || v.Patch() != 3 {
		t.Errorf("got (%d,%d,%d), want (1,2,3)", v.Major(), v.Minor(), v.Patch())
	}
}

func TestMustParseVersionPanicsOnGarbage(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustParseVersion should panic on an unparseable version")
		}
	}()
	MustParseVersion("!!!")
}
