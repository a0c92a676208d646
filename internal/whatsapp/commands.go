package whatsapp

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/user/career-survival/internal/game"
	"github.com/user/career-survival/internal/types"
)

const historyLimit = 5

// processGameCommand handles game commands from players
func (cm *ClientManager) processGameCommand(sender, command string) string {
	command = cleanCommand(command)

	if !strings.HasPrefix(command, "/") {
		return "指令要以 '/' 开头，输入 /help 查看全部指令。"
	}

	fields := strings.Fields(strings.TrimPrefix(command, "/"))
	if len(fields) == 0 {
		return cm.formatter.FormatHelp()
	}
	name, args := fields[0], fields[1:]

	switch name {
	case "help", "帮助":
		return cm.formatter.FormatHelp()
	case "status", "状态":
		return cm.handleStatusCommand(sender)
	case "new", "开局":
		return cm.handleNewCommand(sender, args)
	case "go", "继续":
		view, err := cm.gameManager.Advance(sender)
		return cm.reply(view, err)
	case "a", "b", "c", "d":
		view, err := cm.gameManager.ChooseOption(sender, int(name[0]-'a'))
		return cm.reply(view, err)
	case "overtime", "加班":
		view, err := cm.gameManager.PostWork(sender, types.PostWorkOvertime)
		return cm.reply(view, err)
	case "leave", "下班":
		view, err := cm.gameManager.PostWork(sender, types.PostWorkLeave)
		return cm.reply(view, err)
	case "weekend", "周末":
		return cm.handleWeekendCommand(sender, args)
	case "buy", "买":
		return cm.handleBuyCommand(sender, args)
	case "retire", "退休":
		view, err := cm.gameManager.Retire(sender)
		return cm.reply(view, err)
	case "history", "档案":
		return cm.handleHistoryCommand(sender)
	case "industries", "行业":
		return cm.handleIndustriesCommand(sender)
	case "shop", "商店":
		return cm.formatter.FormatShop(cm.gameManager.GetShopItems())
	}

	return "看不懂这个指令，输入 /help 查看全部指令。"
}

// reply renders the view after an action, or explains why it was rejected
func (cm *ClientManager) reply(view *types.GameView, err error) string {
	if err != nil {
		return describeError(err)
	}
	return cm.formatter.FormatView(view)
}

func (cm *ClientManager) handleStatusCommand(sender string) string {
	view, err := cm.gameManager.GetView(sender)
	if err != nil {
		return describeError(err)
	}
	if view.Run == nil || view.Phase == types.PhaseCreation {
		return cm.formatter.FormatView(view)
	}
	return fmt.Sprintf("📊 *第 %d 周*\n%s\n\n%s", view.Run.Week, cm.formatter.FormatStats(view.Run), cm.formatter.FormatView(view))
}

// handleNewCommand starts a career: /new [industry] [grind eq tech health luck]
func (cm *ClientManager) handleNewCommand(sender string, args []string) string {
	info, err := cm.gameManager.GetCreationInfo(sender)
	if err != nil {
		return describeError(err)
	}
	if len(args) == 0 {
		return fmt.Sprintf("🆕 *新的人生*\n基础属性点 %d，可用传承点 %d\n\n%s\n\n用法：*/new [行业] 拼 情 技 体 运*，每项至少 1 点",
			info.BasePoints, info.LegacyPoints,
			cm.formatter.FormatIndustries(info.Industries, info.UnlockedIndustries))
	}

	industry, ok := matchIndustry(args[0], info.Industries)
	if !ok {
		return fmt.Sprintf("没有叫 %q 的行业，输入 /industries 查看。", args[0])
	}

	attrs := types.Attributes{Grind: 5, EQ: 5, Tech: 5, Health: 5, Luck: 5}
	if points := args[1:]; len(points) > 0 {
		if len(points) != 5 {
			return "属性要按 拼 情 技 体 运 的顺序给出 5 个数字。"
		}
		values := make([]int, 5)
		for i, p := range points {
			v, err := strconv.Atoi(p)
			if err != nil {
				return fmt.Sprintf("%q 不是数字。", p)
			}
			values[i] = v
		}
		attrs = types.Attributes{Grind: values[0], EQ: values[1], Tech: values[2], Health: values[3], Luck: values[4]}
	}

	// Points beyond the base budget are paid from the legacy pool
	req := types.CreationRequest{
		Attributes:        attrs,
		Industry:          industry,
		SpentLegacyPoints: max(0, attrs.Sum()-5-info.BasePoints),
	}
	view, err := cm.gameManager.CreateRun(sender, req)
	return cm.reply(view, err)
}

func (cm *ClientManager) handleWeekendCommand(sender string, args []string) string {
	if len(args) == 0 {
		view, err := cm.gameManager.GetView(sender)
		return cm.reply(view, err)
	}

	activity, ok := matchActivity(strings.Join(args, " "))
	if !ok {
		return describeError(game.ErrUnknownActivity)
	}
	view, err := cm.gameManager.Weekend(sender, activity)
	return cm.reply(view, err)
}

func (cm *ClientManager) handleBuyCommand(sender string, args []string) string {
	items := cm.gameManager.GetShopItems()
	if len(args) == 0 {
		return cm.formatter.FormatShop(items)
	}

	itemID, ok := matchItem(strings.Join(args, " "), items)
	if !ok {
		return describeError(game.ErrUnknownItem)
	}
	view, err := cm.gameManager.Buy(sender, itemID)
	return cm.reply(view, err)
}

func (cm *ClientManager) handleHistoryCommand(sender string) string {
	meta, err := cm.gameManager.GetMeta(sender)
	if err != nil {
		return describeError(err)
	}
	return cm.formatter.FormatHistory(meta, historyLimit)
}

func (cm *ClientManager) handleIndustriesCommand(sender string) string {
	info, err := cm.gameManager.GetCreationInfo(sender)
	if err != nil {
		return describeError(err)
	}
	return cm.formatter.FormatIndustries(info.Industries, info.UnlockedIndustries)
}

// describeError turns a rejected action into a chat reply
func describeError(err error) string {
	switch {
	case errors.Is(err, game.ErrRunNotFound):
		return "你还没有开始职业生涯，输入 /new 开局。"
	case errors.Is(err, game.ErrRunActive):
		return "已经有一段职业生涯在进行中了，输入 /status 查看。"
	case errors.Is(err, game.ErrRunOver):
		return "这段职业生涯已经结束了，输入 /new 重新开始。"
	case errors.Is(err, game.ErrWrongPhase):
		return "现在不能这么做，输入 /status 看看该做什么。"
	case errors.Is(err, game.ErrInvalidOption):
		return "没有这个选项。"
	case errors.Is(err, game.ErrOptionLocked):
		return "🔒 这个选项的条件还不满足。"
	case errors.Is(err, game.ErrInsufficientFunds):
		return "💸 钱不够。"
	case errors.Is(err, game.ErrIndustryLocked):
		return "🔒 这个行业还没有解锁。"
	case errors.Is(err, game.ErrInvalidAllocation):
		return "属性分配不合法：每项至少 1 点，总数不能超过可用点数。"
	case errors.Is(err, game.ErrUnknownActivity):
		return "没有这个周末活动，可选：sleep invest outsource study gig social"
	case errors.Is(err, game.ErrUnknownItem):
		return "商店里没有这个东西，输入 /shop 看看。"
	case errors.Is(err, game.ErrRequirementNotMet):
		return "条件不满足，做不了。"
	}
	return fmt.Sprintf("出错了：%s", err)
}

// matchName resolves free text against candidate names, exact first then fuzzy
func matchName(input string, names []string) (int, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return -1, false
	}
	for i, n := range names {
		if strings.EqualFold(n, input) {
			return i, true
		}
	}
	matches := fuzzy.Find(input, names)
	if len(matches) == 0 {
		return -1, false
	}
	return matches[0].Index, true
}

func matchIndustry(input string, industries []types.Industry) (types.IndustryType, bool) {
	names := make([]string, 0, len(industries)*2)
	ids := make([]types.IndustryType, 0, len(industries)*2)
	for _, ind := range industries {
		names = append(names, string(ind.Type), ind.Name)
		ids = append(ids, ind.Type, ind.Type)
	}
	i, ok := matchName(input, names)
	if !ok {
		return "", false
	}
	return ids[i], true
}

func matchActivity(input string) (types.WeekendActivity, bool) {
	names := make([]string, 0, len(types.WeekendActivities)*2)
	ids := make([]types.WeekendActivity, 0, len(types.WeekendActivities)*2)
	for _, a := range types.WeekendActivities {
		names = append(names, string(a), activityNames[a])
		ids = append(ids, a, a)
	}
	i, ok := matchName(input, names)
	if !ok {
		return "", false
	}
	return ids[i], true
}

func matchItem(input string, items []types.ShopItem) (string, bool) {
	names := make([]string, 0, len(items)*2)
	ids := make([]string, 0, len(items)*2)
	for _, item := range items {
		names = append(names, item.ID, item.Name)
		ids = append(ids, item.ID, item.ID)
	}
	i, ok := matchName(input, names)
	if !ok {
		return "", false
	}
	return ids[i], true
}

// cleanCommand normalizes a command string
func cleanCommand(command string) string {
	command = strings.TrimSpace(command)
	// Chinese input methods produce full-width slashes and spaces
	command = strings.ReplaceAll(command, "／", "/")
	command = strings.ReplaceAll(command, "　", " ")
	return strings.ToLower(command)
}
