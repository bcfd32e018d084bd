package analysis

// Decision is the buy / don't-buy verdict derived from a Result.
type Decision string

const (
	DecisionRecommended    Decision = "recommended"
	DecisionNotRecommended Decision = "not_recommended"
)

const DEFAULT_NEGATIVE_THRESHOLD = 25.0

// Rule turns a Result into a Decision. Rules must be pure.
type Rule func(Result) Decision

// NegativeShareRule rejects a product once its negative percentage exceeds
// threshold. A share exactly at the threshold is still recommended.
func NegativeShareRule(threshold float64) Rule {
	return func(r Result) Decision {
		if r.NegativePct > threshold {
			return DecisionNotRecommended
		}
		return DecisionRecommended
	}
}

// DefaultRule rejects products with more than 25% negative reviews.
var DefaultRule = NegativeShareRule(DEFAULT_NEGATIVE_THRESHOLD)

func Decide(r Result) Decision {
	return DefaultRule(r)
}
