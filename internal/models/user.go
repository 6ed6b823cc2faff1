package models

import (
	"time"

	"gorm.io/datatypes"
)

// Role is a capability tier assigned to a user.
type Role string

// Role tiers, lowest to highest
const (
	RoleMember              Role = "member"
	RoleNewsletterTeam      Role = "newsletter_team"
	RoleMentor              Role = "mentor"
	RoleCommunitySpecialist Role = "community_specialist"
	RoleTwitchStaff         Role = "twitch_staff"
	RoleSuperAdmin          Role = "super_admin"
)

var roleRanks = map[Role]int{
	RoleMember:              0,
	RoleNewsletterTeam:      1,
	RoleMentor:              2,
	RoleCommunitySpecialist: 3,
	RoleTwitchStaff:         4,
	RoleSuperAdmin:          5,
}

// Rank orders roles by privilege. Unknown roles rank below member.
func (r Role) Rank() int {
	if rank, ok := roleRanks[r]; ok {
		return rank
	}
	return -1
}

// Valid reports whether r is one of the known tiers.
func (r Role) Valid() bool {
	_, ok := roleRanks[r]
	return ok
}

// HigherRole returns whichever of a and b ranks higher.
func HigherRole(a, b Role) Role {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// User is a Discord account that has signed in at least once
type User struct {
	DiscordID    string                     `gorm:"primaryKey;type:varchar(32);column:discord_id" json:"discord_id"`
	Username     string                     `gorm:"type:varchar(64);not null;column:username" json:"username"`
	DisplayName  string                     `gorm:"type:varchar(64);not null;default:'';column:display_name" json:"display_name"`
	AvatarURL    *string                    `gorm:"type:varchar(1024);column:avatar_url" json:"avatar_url"`
	Guild        string                     `gorm:"type:varchar(32);not null;index;column:guild" json:"guild"`
	Role         Role                       `gorm:"type:varchar(32);not null;default:'member';column:role" json:"role"`
	DiscordRoles datatypes.JSONSlice[string] `gorm:"column:discord_roles" json:"discord_roles"`
	CreatedAt    time.Time                  `gorm:"not null;column:created_at" json:"created_at"`
	UpdatedAt    time.Time                  `gorm:"not null;column:updated_at" json:"updated_at"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
