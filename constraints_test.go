package depsolver

import "testing"

func mustConstraint(t *testing.T, rc RawConstraint) Constraint {
	t.Helper()
	c, err := rc.canonicalize()
	if err != nil {
		t.Fatalf("canonicalize(%v): %s", rc, err)
	}
	return c
}

func TestAnyMatchesEverything(t *testing.T) {
	c := mustConstraint(t, Any("app1"))
	for _, s := range []string{"0.0.0", "1.2.3", "99.99.99"} {
		if !c.Matches(MustParseVersion(s)) {
			t.Errorf("Any() should match %s", s)
		}
	}
}

func TestEqMatchesOnlyExact(t *testing.T) {
	c := mustConstraint(t, Eq("app1", "1.2.3"))
	if !c.Matches(MustParseVersion("1.2.3")) {
		t.Error("Eq(1.2.3) should match 1.2.3")
	}
	if c.Matches(MustParseVersion("1.2.4")) {
		t.Error("Eq(1.2.3) should not match 1.2.4")
	}
}

func TestComparisonOperators(t *testing.T) {
	v := MustParseVersion("1.2.3")
	cases := []struct {
		name string
		rc   RawConstraint
		want bool
	}{
		{"gte-equal", GTE("app1", "1.2.3"), true},
		{"gte-less", GTE("app1", "1.2.4"), false},
		{"lte-equal", LTE("app1", "1.2.3"), true},
		{"lte-greater", LTE("app1", "1.2.2"), false},
		{"gt-strict", GT("app1", "1.2.2"), true},
		{"gt-equal", GT("app1", "1.2.3"), false},
		{"lt-strict", LT("app1", "1.2.4"), true},
		{"lt-equal", LT("app1", "1.2.3"), false},
	}
	for _, c := range cases {
		got := mustConstraint(t, c.rc).Matches(v)
		if got != c.want {
			t.Errorf("%s: Matches(1.2.3) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestBetweenIsInclusive(t *testing.T) {
	c := mustConstraint(t, Between("app1", "1.0.0", "2.0.0"))
	for _, s := range []string{"1.0.0", "1.5.0", "2.0.0"} {
		if !c.Matches(MustParseVersion(s)) {
			t.Errorf("Between(1.0.0, 2.0.0) should match %s", s)
		}
	}
	if c.Matches(MustParseVersion("2.0.1")) {
		t.Error("Between(1.0.0, 2.0.0) should not match 2.0.1")
	}
}

// TestPessimisticPrecision exercises the resolved convention for how many
// trailing components the "~>" operator floats: the upper bound bumps the
// least-significant explicitly written component and zeroes everything
// below it.
func TestPessimisticPrecision(t *testing.T) {
	cases := []struct {
		spec     string
		matches  []string
		notMatch []string
	}{
		{
			spec:     "2",
			matches:  []string{"2.0.0", "2.5.0", "2.99.99"},
			notMatch: []string{"1.9.9", "3.0.0"},
		},
		{
			spec:     "2.2",
			matches:  []string{"2.2.0", "2.2.9"},
			notMatch: []string{"2.1.9", "2.3.0"},
		},
		{
			spec:     "2.2.3",
			matches:  []string{"2.2.3", "2.2.9"},
			notMatch: []string{"2.2.2", "2.3.0"},
		},
	}
	for _, c := range cases {
		con := mustConstraint(t, Pessimistic("app1", c.spec))
		for _, m := range c.matches {
			if !con.Matches(MustParseVersion(m)) {
				t.Errorf("~> %s should match %s", c.spec, m)
			}
		}
		for _, m := range c.notMatch {
			if con.Matches(MustParseVersion(m)) {
				t.Errorf("~> %s should not match %s", c.spec, m)
			}
		}
	}
}

func TestConstraintKeyDedup(t *testing.T) {
	a := mustConstraint(t, GTE("app1", "1.0.0"))
	b := mustConstraint(t, GTE("app1", "1.0.0"))
	c := mustConstraint(t, GTE("app1", "1.0.1"))

	if a.key() != b.key() {
		t.Error("structurally equal constraints should share a key")
	}
	if a.key() == c.key() {
		t.Error("constraints with different versions should not share a key")
	}
}
