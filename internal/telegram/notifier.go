package telegram

import (
	"context"
	"fmt"
	"time"

	"meal-planner/internal/models"
	"meal-planner/internal/pkg/common"
	"meal-planner/internal/repository"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Notifier pushes dish events to the other group members through the bot.
// Every send runs in its own goroutine and failures are only logged; the
// HTTP request that triggered the event never waits on Telegram.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	groups repository.GroupRepository
}

// NewNotifier creates a bot-backed notifier. Returns an error when the
// token is rejected by the Bot API.
func NewNotifier(botToken string, groups repository.GroupRepository) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize bot: %w", err)
	}
	common.LogInfo("telegram bot connected", zap.String("username", bot.Self.UserName))
	return &Notifier{bot: bot, groups: groups}, nil
}

// DishProposed tells the group a new dish was proposed.
func (n *Notifier) DishProposed(group *models.Group, dish *models.Dish, by *models.User) {
	n.broadcast(group, by, map[string]string{
		models.LangEN: fmt.Sprintf("%s proposed a dish: %s", displayName(by), dish.Name),
		models.LangRU: fmt.Sprintf("%s предложил(а) блюдо: %s", displayName(by), dish.Name),
	})
}

// DishSelected tells the group a dish made it onto the menu.
func (n *Notifier) DishSelected(group *models.Group, dish *models.Dish, by *models.User) {
	n.broadcast(group, by, map[string]string{
		models.LangEN: fmt.Sprintf("%s selected %s for the menu", displayName(by), dish.Name),
		models.LangRU: fmt.Sprintf("%s выбрал(а) %s в меню", displayName(by), dish.Name),
	})
}

func (n *Notifier) broadcast(group *models.Group, actor *models.User, text map[string]string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		members, err := n.groups.ListMembers(ctx, group.ID)
		if err != nil {
			common.LogWarn("notification member list failed",
				zap.Error(err),
				zap.String("group_id", group.ID.String()),
			)
			return
		}

		msg := text[models.NormalizeLang(group.Language)]
		for _, member := range members {
			if member.ID == actor.ID {
				continue
			}
			if _, err := n.bot.Send(tgbotapi.NewMessage(member.TelegramID, msg)); err != nil {
				common.LogWarn("notification send failed",
					zap.Error(err),
					zap.Int64("telegram_id", member.TelegramID),
				)
			}
		}
	}()
}

func displayName(u *models.User) string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}
