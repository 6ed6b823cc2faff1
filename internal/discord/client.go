package discord

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/unityguilds/hub/internal/auth"
	"github.com/unityguilds/hub/pkg/config"
	"github.com/unityguilds/hub/pkg/logging"
	"github.com/unityguilds/hub/pkg/telemetry"
)

// Discord OAuth2 endpoints
var Endpoint = oauth2.Endpoint{
	AuthURL:   "https://discord.com/oauth2/authorize",
	TokenURL:  "https://discord.com/api/oauth2/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

// Scopes requested at login
var Scopes = []string{"identify", "guilds", "guilds.members.read"}

var (
	_ auth.IdentityProvider = (*Client)(nil)
	_ auth.RoleDirectory    = (*Client)(nil)
)

// Client talks to Discord on behalf of the login flow
type Client struct {
	oauth     *oauth2.Config
	botToken  string
	roleNames map[string]string

	botOnce sync.Once
	bot     *discordgo.Session
	botErr  error
}

// NewClient creates a Discord client; the callback lives under siteURL
func NewClient(cfg config.DiscordConfig, siteURL string) *Client {
	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     Endpoint,
			RedirectURL:  siteURL + "/api/auth/callback",
			Scopes:       Scopes,
		},
		botToken:  cfg.BotToken,
		roleNames: cfg.RoleNames,
	}
}

// AuthCodeURL returns the authorize URL carrying state back to the callback
func (c *Client) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state)
}

// Exchange trades an authorization code for an access token
func (c *Client) Exchange(ctx context.Context, code string) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "discord.Exchange")
	defer span.End()

	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("failed to exchange code: %w", err)
	}
	return token.AccessToken, nil
}

// Profile fetches the token owner's user object
func (c *Client) Profile(ctx context.Context, token string) (*auth.Profile, error) {
	ctx, span := telemetry.StartSpan(ctx, "discord.Profile")
	defer span.End()

	s, err := bearerSession(token)
	if err != nil {
		return nil, err
	}
	u, err := s.User("@me", discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &auth.Profile{
		ID:         u.ID,
		Username:   u.Username,
		GlobalName: u.GlobalName,
		Avatar:     u.Avatar,
	}, nil
}

// MemberRoles returns the role ids the token owner holds in serverID
func (c *Client) MemberRoles(ctx context.Context, token, serverID string) ([]string, error) {
	ctx, span := telemetry.StartSpan(ctx, "discord.MemberRoles")
	defer span.End()

	s, err := bearerSession(token)
	if err != nil {
		return nil, err
	}
	member, err := s.UserGuildMember(serverID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch membership in %s: %w", serverID, err)
	}
	return member.Roles, nil
}

// RoleNames maps serverID's role ids to names. Without a bot token only the configured names are known.
func (c *Client) RoleNames(ctx context.Context, serverID string) (map[string]string, error) {
	names := make(map[string]string, len(c.roleNames))
	for id, name := range c.roleNames {
		names[id] = name
	}
	if c.botToken == "" {
		return names, nil
	}

	bot, err := c.botSession()
	if err != nil {
		return names, err
	}
	roles, err := bot.GuildRoles(serverID, discordgo.WithContext(ctx))
	if err != nil {
		return names, fmt.Errorf("failed to fetch roles for %s: %w", serverID, err)
	}
	for _, role := range roles {
		names[role.ID] = role.Name
	}
	return names, nil
}

func (c *Client) botSession() (*discordgo.Session, error) {
	c.botOnce.Do(func() {
		c.bot, c.botErr = discordgo.New("Bot " + c.botToken)
		if c.botErr == nil {
			logging.GetLogger().Info("Discord bot session created for role lookups")
		} else {
			logging.GetLogger().Error("Failed to create Discord bot session", zap.Error(c.botErr))
		}
	})
	return c.bot, c.botErr
}

func bearerSession(token string) (*discordgo.Session, error) {
	s, err := discordgo.New("Bearer " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	return s, nil
}
