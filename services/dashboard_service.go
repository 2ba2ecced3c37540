package services

import (
	"context"
	"errors"

	"answerly/models"
)

type DashboardService struct {
	directory GuildDirectory
}

func NewDashboardService(directory GuildDirectory) (*DashboardService, error) {
	if directory == nil {
		return nil, errors.New("guild directory cannot be nil")
	}
	return &DashboardService{directory: directory}, nil
}

// Servers lists the guilds the token's owner can manage, flagged with
// whether the bot is already there. ErrTokenRejected is passed through.
func (s *DashboardService) Servers(ctx context.Context, accessToken string) ([]models.Guild, error) {
	userGuilds, err := s.directory.ListUserGuilds(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	return ManageableGuilds(userGuilds, s.directory.ListBotGuilds(ctx)), nil
}

// ManageableGuilds keeps the user guilds carrying the manage-server bit, in
// their original order.
func ManageableGuilds(userGuilds []models.Guild, botGuilds map[string]models.Guild) []models.Guild {
	servers := []models.Guild{}
	for _, g := range userGuilds {
		if !g.CanManage() {
			continue
		}
		_, g.BotPresent = botGuilds[g.ID]
		servers = append(servers, g)
	}
	return servers
}

// ManageableGuild returns the user's view of guildID, or ErrGuildNotManageable
// when the guild is missing from their list or lacks the manage-server bit.
func (s *DashboardService) ManageableGuild(ctx context.Context, accessToken, guildID string) (*models.Guild, error) {
	userGuilds, err := s.directory.ListUserGuilds(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	for _, g := range userGuilds {
		if g.ID == guildID && g.CanManage() {
			guild := g
			return &guild, nil
		}
	}
	return nil, ErrGuildNotManageable
}
