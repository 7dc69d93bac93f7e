package bucket

import (
	"fmt"
	"math"
	"time"

	"github.com/Makepad-fr/bucket/internal/model"
)

// Certificate is the note written when an item is completed at at.
func Certificate(it model.Item, at time.Time) string {
	days := int(math.Ceil(math.Abs(at.Sub(it.CreatedAt).Hours()) / 24))
	return fmt.Sprintf(`🎉 Congratulations! 🎉

"%s"

You set this goal and you made it happen. This note certifies the achievement.

📅 Started:   %s
✅ Completed: %s
⏱️ Took:      %d %s`,
		it.Title,
		it.CreatedAt.Local().Format("January 2, 2006"),
		at.Local().Format("January 2, 2006"),
		days, plural(days, "day", "days"))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
