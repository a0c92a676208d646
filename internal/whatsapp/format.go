package whatsapp

import (
	"fmt"
	"strings"

	"github.com/user/career-survival/internal/types"
)

var activityNames = map[types.WeekendActivity]string{
	types.WeekendSleep:     "睡觉",
	types.WeekendInvest:    "理财",
	types.WeekendOutsource: "接私活",
	types.WeekendStudy:     "报班学习",
	types.WeekendGig:       "跑外卖",
	types.WeekendSocial:    "聚餐社交",
}

// MessageFormatter renders game views as chat text
type MessageFormatter struct{}

// NewMessageFormatter creates a new message formatter
func NewMessageFormatter() *MessageFormatter {
	return &MessageFormatter{}
}

// optionLetter maps an option index onto its command letter
func optionLetter(i int) string {
	return string(rune('a' + i))
}

// FormatView renders whatever the current phase needs the player to see
func (mf *MessageFormatter) FormatView(view *types.GameView) string {
	var b strings.Builder

	for _, n := range view.Notifications {
		fmt.Fprintf(&b, "📢 %s\n", n)
	}
	if len(view.Notifications) > 0 {
		b.WriteString("\n")
	}

	switch view.Phase {
	case types.PhaseCreation:
		b.WriteString("还没有进行中的职业生涯。\n输入 */new [行业] 拼 情 技 体 运* 开局，例如 */new internet 5 5 5 5 5*")

	case types.PhaseWeekIntro:
		fmt.Fprintf(&b, "📅 *第 %d 周*", view.Run.Week)
		if view.Run.IsSmallWeek {
			b.WriteString("（大小周，本周末要加班）")
		}
		b.WriteString("\n\n")
		b.WriteString(mf.FormatStats(view.Run))
		b.WriteString("\n\n输入 */go* 开始这一周")

	case types.PhaseEvent:
		b.WriteString(mf.FormatEvent(view.Event))

	case types.PhaseResult:
		b.WriteString(mf.FormatEffect(view.LastEffect))
		b.WriteString("\n\n下班了：*/overtime* 继续加班，*/leave* 准点走人，*/retire* 提前退休")

	case types.PhaseWeekend:
		b.WriteString(mf.FormatEffect(view.LastEffect))
		b.WriteString("\n\n🌴 *周末安排*\n")
		for _, a := range types.WeekendActivities {
			fmt.Fprintf(&b, "*/weekend %s* %s\n", a, activityNames[a])
		}

	case types.PhaseSettlement:
		b.WriteString(mf.FormatEffect(view.LastEffect))
		if view.Settlement != nil {
			b.WriteString("\n\n")
			b.WriteString(mf.FormatSettlement(view.Settlement))
		}
		b.WriteString("\n\n输入 */go* 进入下一周，*/buy [物品]* 去商店")

	case types.PhaseRetiring:
		b.WriteString("🏖️ 辞职信已经递上去了。输入 */go* 确认退休")

	case types.PhaseVictory, types.PhaseGameOver:
		if view.Settlement != nil {
			b.WriteString(mf.FormatSettlement(view.Settlement))
			b.WriteString("\n\n")
		}
		b.WriteString(mf.FormatEnding(view))
	}

	return strings.TrimRight(b.String(), "\n")
}

// FormatStats renders the run's vital numbers
func (mf *MessageFormatter) FormatStats(run *types.RunState) string {
	if run == nil {
		return ""
	}
	a := run.Attributes
	r := run.Relationships
	lines := []string{
		fmt.Sprintf("❤️ 体力 %d/%d  🧠 精神 %d/%d", run.Stamina, run.MaxStamina, run.Sanity, run.MaxSanity),
		fmt.Sprintf("💰 存款 %d  💼 周薪 %d  🧾 开销 %d", run.Money, run.Salary, run.Expenses),
		fmt.Sprintf("⭐ 职级 %d  经验 %d  ⚠️ 风险 %d", run.Level, run.Exp, run.Risk),
		fmt.Sprintf("拼 %d 情 %d 技 %d 体 %d 运 %d", a.Grind, a.EQ, a.Tech, a.Health, a.Luck),
		fmt.Sprintf("老板 %d 同事 %d HR %d", r.Boss, r.Colleague, r.HR),
	}
	if len(run.ActiveBuffs) > 0 {
		names := make([]string, 0, len(run.ActiveBuffs))
		for _, buff := range run.ActiveBuffs {
			names = append(names, fmt.Sprintf("%s(%d)", buff.Name, buff.Duration))
		}
		lines = append(lines, "状态: "+strings.Join(names, " "))
	}
	if len(run.Titles) > 0 {
		lines = append(lines, "称号: "+strings.Join(run.Titles, " "))
	}
	return strings.Join(lines, "\n")
}

// FormatEvent renders an event with its option letters
func (mf *MessageFormatter) FormatEvent(event *types.EventView) string {
	if event == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "*%s*\n%s\n\n", event.Title, event.Description)
	for _, o := range event.Options {
		if o.Locked {
			fmt.Fprintf(&b, "~/%s %s~ 🔒\n", optionLetter(o.Index), o.Label)
			continue
		}
		fmt.Fprintf(&b, "*/%s* %s\n", optionLetter(o.Index), o.Label)
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatEffect renders the deltas an action produced
func (mf *MessageFormatter) FormatEffect(effect *types.EffectDescriptor) string {
	if effect == nil {
		return ""
	}
	parts := []string{}
	add := func(label string, v int) {
		if v != 0 {
			parts = append(parts, fmt.Sprintf("%s %+d", label, v))
		}
	}
	add("体力", effect.Stamina)
	add("精神", effect.Sanity)
	add("金钱", effect.Money)
	add("经验", effect.Exp)
	add("风险", effect.Risk)
	add("周薪", effect.Salary)

	text := effect.Message
	if len(parts) > 0 {
		text += "\n" + strings.Join(parts, "  ")
	}
	return text
}

// FormatSettlement renders the weekly bill
func (mf *MessageFormatter) FormatSettlement(r *types.SettlementReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🧾 *第 %d 周结算*\n", r.Week)
	fmt.Fprintf(&b, "税前 %d  个税 %d  到手 %d\n", r.GrossIncome, r.Tax, r.NetIncome)
	fmt.Fprintf(&b, "生活开销 %d", r.Expense)
	if r.RevengePenalty > 0 {
		fmt.Fprintf(&b, "\n报复性消费 %d", r.RevengePenalty)
	}
	if r.DebtWeeks > 0 {
		fmt.Fprintf(&b, "\n⚠️ 已连续负债 %d 周", r.DebtWeeks)
	}
	if r.LeveledUp {
		b.WriteString("\n🎉 升职了！")
	}
	return b.String()
}

// FormatEnding renders the end of a career
func (mf *MessageFormatter) FormatEnding(view *types.GameView) string {
	if view.Ending == nil {
		return ""
	}
	head := "💀 *游戏结束*"
	if view.Ending.Victory {
		head = "🏆 *职业生涯圆满*"
	}
	week := 0
	if view.Run != nil {
		week = view.Run.Week
	}
	return fmt.Sprintf("%s\n结局：%s\n坚持了 %d 周\n\n输入 */new* 开始新的人生", head, view.Ending.Label, week)
}

// FormatHistory renders the most recent careers
func (mf *MessageFormatter) FormatHistory(meta types.MetaProgress, limit int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📜 *职业档案*\n累计生涯点 %d  最长坚持 %d 周\n", meta.TotalCareerPoints, meta.HighScoreWeeks)
	if len(meta.GameHistory) == 0 {
		b.WriteString("\n还没有结束过的职业生涯。")
		return b.String()
	}
	b.WriteString("\n")
	for i, r := range meta.GameHistory {
		if i == limit {
			break
		}
		fmt.Fprintf(&b, "%s %s 第%d周 %s\n", r.Date, r.Industry, r.Week, r.Ending)
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatHelp lists the chat commands
func (mf *MessageFormatter) FormatHelp() string {
	return "🎮 *职场生存指南*\n\n" +
		"*/new [行业] 拼 情 技 体 运* 开始新的职业生涯\n" +
		"*/status* 查看当前状态\n" +
		"*/go* 继续\n" +
		"*/a* */b* */c* 选择事件选项\n" +
		"*/overtime* 加班  */leave* 准点下班\n" +
		"*/weekend [活动]* 安排周末\n" +
		"*/buy [物品]* 购物\n" +
		"*/retire* 提前退休\n" +
		"*/industries* 行业列表  */shop* 商店\n" +
		"*/history* 职业档案"
}

// FormatIndustries lists the industries and which of them are open
func (mf *MessageFormatter) FormatIndustries(industries []types.Industry, unlocked []types.IndustryType) string {
	open := make(map[types.IndustryType]bool, len(unlocked))
	for _, u := range unlocked {
		open[u] = true
	}
	var b strings.Builder
	b.WriteString("🏢 *行业*\n")
	for _, ind := range industries {
		if open[ind.Type] {
			fmt.Fprintf(&b, "*%s* %s\n", ind.Type, ind.Name)
		} else {
			fmt.Fprintf(&b, "🔒 %s %s（%s）\n", ind.Type, ind.Name, ind.UnlockReq)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatShop lists the shop
func (mf *MessageFormatter) FormatShop(items []types.ShopItem) string {
	var b strings.Builder
	b.WriteString("🛒 *商店*\n")
	for _, item := range items {
		fmt.Fprintf(&b, "*%s* %s ¥%d %s\n", item.ID, item.Name, item.Price, item.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}
