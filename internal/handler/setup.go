package handler

import (
	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg-autodelete/internal/config"
	"tg-autodelete/internal/service"
	"tg-autodelete/internal/storage"
)

var (
	globalConfig *config.Config
	deletionRepo *storage.DeletionRepository
	intake       *service.Intake
)

// Initialize wires the handler package to its collaborators.
func Initialize(cfg *config.Config, repo *storage.DeletionRepository) {
	globalConfig = cfg
	deletionRepo = repo
	intake = service.NewIntake(cfg, repo)
}

// SetupMessageHandlers configures all bot message handlers
func SetupMessageHandlers(bh *th.BotHandler, bot *telego.Bot) {
	bh.HandleMessage(func(ctx *th.Context, message telego.Message) error {
		ok, err := handleCommand(ctx, bot, message)
		if ok {
			return err
		}

		return handleIncomingMessage(ctx, bot, message)
	})
}
