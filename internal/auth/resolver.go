package auth

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/unityguilds/hub/internal/guilds"
	"github.com/unityguilds/hub/internal/models"
	"github.com/unityguilds/hub/pkg/logging"
	"github.com/unityguilds/hub/pkg/telemetry"
)

// Login failures. Each maps to an ?error= code on the redirect.
var (
	ErrTokenExchange = errors.New("token exchange failed")
	ErrProfileFetch  = errors.New("profile fetch failed")
	ErrNotAMember    = errors.New("not a member of any guild")
)

// Profile is the identity provider's view of the caller
type Profile struct {
	ID         string
	Username   string
	GlobalName string
	Avatar     string
}

// IdentityProvider performs the OAuth exchange and bearer-token lookups
type IdentityProvider interface {
	Exchange(ctx context.Context, code string) (string, error)
	Profile(ctx context.Context, token string) (*Profile, error)
	MemberRoles(ctx context.Context, token, serverID string) ([]string, error)
}

// RoleDirectory resolves a server's role ids to role names
type RoleDirectory interface {
	RoleNames(ctx context.Context, serverID string) (map[string]string, error)
}

// UserStore persists users on login
type UserStore interface {
	UpsertLogin(ctx context.Context, user *models.User) (*models.User, error)
}

// Resolver turns an OAuth code into a session
type Resolver struct {
	provider    IdentityProvider
	roles       RoleDirectory
	users       UserStore
	superAdmins map[string]bool
	guilds      []guilds.Guild
	logger      *zap.Logger
}

// NewResolver creates a resolver checking membership across every guild with a server
func NewResolver(provider IdentityProvider, roles RoleDirectory, users UserStore, superAdmins []string) *Resolver {
	admins := make(map[string]bool, len(superAdmins))
	for _, id := range superAdmins {
		admins[id] = true
	}
	return &Resolver{
		provider:    provider,
		roles:       roles,
		users:       users,
		superAdmins: admins,
		guilds:      guilds.WithServers(),
		logger:      logging.WithComponent("auth"),
	}
}

// Authenticate exchanges code for a token and resolves the caller's guild and role.
// guildHint is preferred when the caller is a member of several guilds.
func (r *Resolver) Authenticate(ctx context.Context, code, guildHint string) (*Session, error) {
	ctx, span := telemetry.StartSpan(ctx, "auth.Authenticate")
	defer span.End()

	token, err := r.provider.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenExchange, err)
	}

	profile, err := r.provider.Profile(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileFetch, err)
	}

	var (
		userGuild  string
		serverID   string
		memberRole []string
	)
	for _, g := range r.guilds {
		roles, err := r.provider.MemberRoles(ctx, token, g.ServerID)
		if err != nil {
			// unreachable or foreign server counts as no membership
			r.logger.Debug("membership lookup failed",
				zap.String("guild", g.Slug),
				zap.Error(err))
			continue
		}
		if len(roles) == 0 {
			continue
		}
		if g.Slug == guildHint {
			userGuild, serverID, memberRole = g.Slug, g.ServerID, roles
			break
		}
		if userGuild == "" {
			userGuild, serverID, memberRole = g.Slug, g.ServerID, roles
		}
	}
	if userGuild == "" {
		return nil, ErrNotAMember
	}
	span.SetAttributes(attribute.String("guild", userGuild))

	role := r.resolveRole(ctx, profile.ID, serverID, memberRole)

	displayName := profile.GlobalName
	if displayName == "" {
		displayName = profile.Username
	}
	var avatarURL *string
	if profile.Avatar != "" {
		url := fmt.Sprintf("https://cdn.discordapp.com/avatars/%s/%s.png", profile.ID, profile.Avatar)
		avatarURL = &url
	}

	user := &models.User{
		DiscordID:    profile.ID,
		Username:     profile.Username,
		DisplayName:  displayName,
		AvatarURL:    avatarURL,
		Guild:        userGuild,
		Role:         models.RoleMember,
		DiscordRoles: memberRole,
	}
	stored, err := r.users.UpsertLogin(ctx, user)
	if err != nil {
		// the session is still issued with the role derived from Discord
		r.logger.Error("user upsert failed", zap.String("discord_id", profile.ID), zap.Error(err))
	} else {
		role = models.HigherRole(role, stored.Role)
	}

	return &Session{
		DiscordID:   profile.ID,
		Username:    profile.Username,
		DisplayName: displayName,
		AvatarURL:   avatarURL,
		Guild:       userGuild,
		Role:        role,
		Roles:       memberRole,
	}, nil
}

func (r *Resolver) resolveRole(ctx context.Context, userID, serverID string, roleIDs []string) models.Role {
	if r.superAdmins[userID] {
		return models.RoleSuperAdmin
	}
	if r.roles == nil {
		return models.RoleMember
	}

	names, err := r.roles.RoleNames(ctx, serverID)
	if err != nil {
		r.logger.Warn("role name lookup failed", zap.String("server_id", serverID), zap.Error(err))
		// configured names may still come back alongside the error
		if names == nil {
			return models.RoleMember
		}
	}

	resolved := make([]string, 0, len(roleIDs))
	for _, id := range roleIDs {
		if name, ok := names[id]; ok {
			resolved = append(resolved, name)
		}
	}
	return RoleForNames(resolved)
}

var roleNameTiers = map[string]models.Role{
	"Newsletter Team":                     models.RoleNewsletterTeam,
	"Mentor: Event/Project Planning":      models.RoleMentor,
	"Community Specialist":                models.RoleCommunitySpecialist,
	"Visiting Guild Community Specialist": models.RoleCommunitySpecialist,
	"Twitch Staff":                        models.RoleTwitchStaff,
}

// RoleForNames returns the highest tier granted by a set of Discord role names
func RoleForNames(names []string) models.Role {
	role := models.RoleMember
	for _, name := range names {
		if tier, ok := roleNameTiers[name]; ok {
			role = models.HigherRole(role, tier)
		}
	}
	return role
}
