package prediction

var highRecommendations = []string{
	"🔴 Perform thorough code review before deployment",
	"🔴 Increase test coverage for this module",
	"🔴 Consider refactoring to reduce complexity",
	"🔴 Schedule security audit and penetration testing",
	"🔴 Plan additional debugging and QA time",
	"🔴 Prioritize this module for immediate attention",
}

var mediumRecommendations = []string{
	"🟡 Standard code review recommended",
	"🟡 Ensure adequate test coverage is present",
	"🟡 Monitor during initial deployment phase",
	"🟡 Consider minor refactoring if feasible",
	"🟡 Implement runtime monitoring and logging",
	"🟡 Have rollback plan ready",
}

var lowRecommendations = []string{
	"🟢 Standard QA process sufficient",
	"🟢 Proceed with normal code review",
	"🟢 Maintain current test coverage levels",
	"🟢 Low risk for deployment",
	"🟢 Continue monitoring for performance issues",
	"🟢 Safe to include in sprint deliverable",
}

// Recommendations はリスク区分に対応する推奨事項を返す。
// LOWおよび未知の区分はLOWの一覧になる。probability は現状出力に影響しない。
func Recommendations(level RiskLevel, probability float64) []string {
	_ = probability

	var src []string
	switch level {
	case RiskHigh:
		src = highRecommendations
	case RiskMedium:
		src = mediumRecommendations
	default:
		src = lowRecommendations
	}

	out := make([]string, len(src))
	copy(out, src)
	return out
}
