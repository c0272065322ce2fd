package config

// Config holds all configuration for the application.
type Config struct {
	DBName    string
	Port      string
	Slack     SlackConfig
	Turso     TursoConfig
	ProjectID string
	Sim       SimConfig
}

type SlackConfig struct {
	Token     string
	ChannelID string
}

// Enabled reports whether both the token and the channel are set.
func (c SlackConfig) Enabled() bool {
	return c.Token != "" && c.ChannelID != ""
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

// SimConfig holds the defaults for simulation runs.
type SimConfig struct {
	Iterations      int
	Seed            int64
	RandomizeGroups bool
	FocusTeam       string
	HostBonus       float64
	KFactor         float64
	RatingsFile     string
	BaselineFile    string
	StrictResults   bool
}
