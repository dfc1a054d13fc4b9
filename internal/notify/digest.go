package notify

import (
	"fmt"
	"sort"
	"strings"

	"readtrack/internal/model"
)

// FormatDigest renders the daily reading summary: unread-and-unfrozen users
// grouped by unread-day count ascending, one line per distinct count, then a
// frozen-users line when any exist, then a celebration line when nobody is
// behind. Pure and deterministic for a given user ordering.
func FormatDigest(users []model.User) string {
	groups := map[int][]string{}
	var frozen []string
	for _, u := range users {
		if u.Frozen {
			frozen = append(frozen, "@"+u.Name)
			continue
		}
		if !u.IsRead && u.UnreadDays > 0 {
			groups[u.UnreadDays] = append(groups[u.UnreadDays], "@"+u.Name)
		}
	}

	days := make([]int, 0, len(groups))
	for d := range groups {
		days = append(days, d)
	}
	sort.Ints(days)

	var b strings.Builder
	b.WriteString("📖 每日读经统计\n\n")
	for _, d := range days {
		fmt.Fprintf(&b, "%s %d日未读\n\n", strings.Join(groups[d], " "), d)
	}

	if len(frozen) > 0 {
		b.WriteString("\n⚠️ 冻结用户（连续7天未读）:\n")
		b.WriteString(strings.Join(frozen, " "))
	}

	if len(days) == 0 && len(frozen) == 0 {
		b.WriteString("🎉 所有用户今日均已完成读经！")
	}

	return strings.TrimSpace(b.String())
}
