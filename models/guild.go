package models

// PermissionManageGuild is Discord's "Manage Server" permission bit.
const PermissionManageGuild int64 = 0x20

// Guild is a Discord server as seen by one user (or by the bot).
type Guild struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Permissions int64  `json:"permissions"`
	BotPresent  bool   `json:"bot_present"`
}

func (g Guild) CanManage() bool {
	return g.Permissions&PermissionManageGuild == PermissionManageGuild
}
