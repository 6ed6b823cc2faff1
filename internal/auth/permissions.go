package auth

import "github.com/unityguilds/hub/internal/models"

// Session is the normalized login record carried in the session cookie
type Session struct {
	DiscordID   string      `json:"discord_id"`
	Username    string      `json:"username"`
	DisplayName string      `json:"display_name"`
	AvatarURL   *string     `json:"avatar_url"`
	Guild       string      `json:"guild"`
	Role        models.Role `json:"role"`
	Roles       []string    `json:"roles"`
}

var staffRoles = map[models.Role]bool{
	models.RoleNewsletterTeam:      true,
	models.RoleMentor:              true,
	models.RoleCommunitySpecialist: true,
	models.RoleTwitchStaff:         true,
	models.RoleSuperAdmin:          true,
}

var superAdminRoles = map[models.Role]bool{
	models.RoleSuperAdmin:          true,
	models.RoleTwitchStaff:         true,
	models.RoleCommunitySpecialist: true,
}

// IsSuperAdmin reports whether s may act across every guild
func IsSuperAdmin(s *Session) bool {
	if s == nil {
		return false
	}
	return superAdminRoles[s.Role]
}

// IsGuildStaff reports whether s may mutate content owned by guild
func IsGuildStaff(s *Session, guild string) bool {
	if s == nil {
		return false
	}
	if IsSuperAdmin(s) {
		return true
	}
	return s.Guild == guild && staffRoles[s.Role]
}

// IsGuildMember reports whether s belongs to guild
func IsGuildMember(s *Session, guild string) bool {
	if s == nil {
		return false
	}
	return s.Guild == guild
}

// CanAccessAdmin reports whether s may open the admin dashboard.
// Only the role tier is checked; writes are still gated per guild.
func CanAccessAdmin(s *Session) bool {
	if s == nil {
		return false
	}
	return staffRoles[s.Role]
}

// CanEdit reports whether s may edit guild's content inline
func CanEdit(s *Session, guild string) bool {
	return IsGuildStaff(s, guild)
}

// RoleDisplayName returns the human label for a role tier
func RoleDisplayName(role models.Role) string {
	switch role {
	case models.RoleMember:
		return "Guild Member"
	case models.RoleNewsletterTeam:
		return "Newsletter Team"
	case models.RoleMentor:
		return "Mentor"
	case models.RoleCommunitySpecialist:
		return "Community Specialist"
	case models.RoleTwitchStaff:
		return "Twitch Staff"
	case models.RoleSuperAdmin:
		return "Super Admin"
	default:
		return "Member"
	}
}
