package model

// projectStatusMap translates the legacy source-language status labels to
// the target vocabulary. Unknown labels fall back to executing so a typo in
// legacy data never blocks a migration.
var projectStatusMap = map[string]string{
	"执行中": ProjectExecuting,
	"已完成": ProjectPendingSettlement,
	"已暂停": ProjectExecuting,
	"已归档": ProjectClosed,
}

// MapProjectStatus translates a legacy project status label.
func MapProjectStatus(label string) string {
	if s, ok := projectStatusMap[label]; ok {
		return s
	}
	return ProjectExecuting
}

// MapOrderMode translates a legacy order type. Unrecognized values classify
// as adjusted, the safer bucket for financial review.
func MapOrderMode(orderType string) string {
	switch orderType {
	case "original", "原价单":
		return OrderModeOriginal
	case "adjusted", "改价单":
		return OrderModeAdjusted
	default:
		return OrderModeAdjusted
	}
}
