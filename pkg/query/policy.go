package query

// Policy is the field-level allow/block configuration for one
// operation (filtering and ordering carry independent policies).
// A non-empty AllowList admits only listed tokens; BlockList rejects
// listed tokens regardless; Aliases rewrite admitted caller-facing
// tokens to schema tokens. Both lists are declared in caller-facing
// terms, so they are checked before alias rewriting.
type Policy struct {
	AllowList []string
	BlockList []string
	Aliases   map[string]string
}

// PolicyGate evaluates a field token against a Policy. Evaluation is
// per clause: admitting a field in one clause grants nothing to any
// other clause.
type PolicyGate struct {
	policy Policy
	allow  map[string]struct{}
	block  map[string]struct{}
}

func NewPolicyGate(policy Policy) *PolicyGate {
	g := &PolicyGate{policy: policy}
	if len(policy.AllowList) > 0 {
		g.allow = make(map[string]struct{}, len(policy.AllowList))
		for _, f := range policy.AllowList {
			g.allow[f] = struct{}{}
		}
	}
	if len(policy.BlockList) > 0 {
		g.block = make(map[string]struct{}, len(policy.BlockList))
		for _, f := range policy.BlockList {
			g.block[f] = struct{}{}
		}
	}
	return g
}

// Admit checks the token and returns the (possibly alias-rewritten)
// token to resolve, or PolicyViolationError.
func (g *PolicyGate) Admit(token string) (string, error) {
	if g.block != nil {
		if _, blocked := g.block[token]; blocked {
			return "", NewPolicyViolationError(token)
		}
	}
	if g.allow != nil {
		if _, allowed := g.allow[token]; !allowed {
			return "", NewPolicyViolationError(token)
		}
	}
	if rewritten, ok := g.policy.Aliases[token]; ok {
		return rewritten, nil
	}
	return token, nil
}
