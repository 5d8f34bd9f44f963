package loot

// Tier is one dungeon difficulty level: the directory holding its loot
// description files plus the label shown to users.
type Tier struct {
	ID      string
	Label   string
	Locator string
}
