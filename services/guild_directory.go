package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"answerly/models"

	"github.com/bwmarrin/discordgo"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_guild_directory.go answerly/services GuildDirectory

// GuildDirectory lists guilds through the Discord API. Lookups fail open:
// any failure is logged and reported as an empty result, except a rejected
// user token which surfaces as ErrTokenRejected.
type GuildDirectory interface {
	ListBotGuilds(ctx context.Context) map[string]models.Guild
	ListUserGuilds(ctx context.Context, accessToken string) ([]models.Guild, error)
}

type DiscordDirectory struct {
	botToken   string
	endpoint   string
	httpClient *http.Client
}

// NewDiscordDirectory lists guilds from apiURL + "/users/@me/guilds".
// An empty apiURL falls back to discordgo's built-in endpoint.
func NewDiscordDirectory(botToken, apiURL string, httpClient *http.Client) *DiscordDirectory {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	endpoint := discordgo.EndpointUserGuilds("@me")
	if apiURL != "" {
		endpoint = strings.TrimRight(apiURL, "/") + "/users/@me/guilds"
	}
	return &DiscordDirectory{
		botToken:   botToken,
		endpoint:   endpoint,
		httpClient: httpClient,
	}
}

func (d *DiscordDirectory) ListBotGuilds(ctx context.Context) map[string]models.Guild {
	guilds, err := d.userGuilds(ctx, "Bot "+d.botToken)
	if err != nil {
		slog.Error("failed to fetch bot guilds", slog.Any("err", err))
		return map[string]models.Guild{}
	}

	byID := make(map[string]models.Guild, len(guilds))
	for _, g := range guilds {
		byID[g.ID] = g
	}
	return byID
}

func (d *DiscordDirectory) ListUserGuilds(ctx context.Context, accessToken string) ([]models.Guild, error) {
	guilds, err := d.userGuilds(ctx, "Bearer "+accessToken)
	if err != nil {
		if isUnauthorized(err) {
			return []models.Guild{}, ErrTokenRejected
		}
		slog.Error("failed to fetch user guilds", slog.Any("err", err))
		return []models.Guild{}, nil
	}
	return guilds, nil
}

func (d *DiscordDirectory) userGuilds(ctx context.Context, authorization string) ([]models.Guild, error) {
	session, err := discordgo.New(authorization)
	if err != nil {
		return nil, err
	}
	session.Client = d.httpClient
	session.MaxRestRetries = 0
	session.ShouldRetryOnRateLimit = false

	body, err := session.RequestWithBucketID(http.MethodGet, d.endpoint, nil, discordgo.EndpointUserGuilds(""), discordgo.WithContext(ctx))
	if err != nil {
		return nil, err
	}

	var userGuilds []*discordgo.UserGuild
	if err := json.Unmarshal(body, &userGuilds); err != nil {
		return nil, err
	}

	guilds := make([]models.Guild, 0, len(userGuilds))
	for _, ug := range userGuilds {
		guilds = append(guilds, models.Guild{
			ID:          ug.ID,
			Name:        ug.Name,
			Icon:        ug.Icon,
			Permissions: ug.Permissions,
		})
	}
	return guilds, nil
}

func isUnauthorized(err error) bool {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil {
		return restErr.Response.StatusCode == http.StatusUnauthorized
	}
	return errors.Is(err, discordgo.ErrUnauthorized)
}
