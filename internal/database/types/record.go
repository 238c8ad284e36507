package types

import "github.com/uptrace/bun"

// GuildContainer marks that a guild has a container of a kind, even when empty.
type GuildContainer struct {
	bun.BaseModel `bun:"table:guild_containers,alias:gc"`

	Kind    string `bun:",pk"`
	GuildID uint64 `bun:",pk"`
}

// GuildRecord is one stored row of a guild container.
type GuildRecord struct {
	bun.BaseModel `bun:"table:guild_records,alias:gr"`

	Kind     string   `bun:",pk"`
	GuildID  uint64   `bun:",pk"`
	Position int      `bun:",pk"`
	Fields   []string `bun:",array,notnull"`
}
