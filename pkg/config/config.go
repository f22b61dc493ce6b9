package config

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	DB              string // connection string for the database
	NatsURL         string // URL of the NATS server used for race state snapshots
	WaitForServices string // duration to wait for other services to be ready
	LogLevel        string // sets the log level (zap log level values)
	SQLLogLevel     string // sets the log level for sql subsystem
	LogFormat       string // text vs json
	LogFilter       string // zapfilter rules, empty disables filtering
	Output          string // text vs json for command results
	EnableTelemetry bool   // adds the otel query tracer to the database pool
)

// RaceConfig holds the race setup shared by the simulate and play commands.
type RaceConfig struct {
	Team              []string // archetype ids
	Formation         string
	Frame             string
	Wheels            string
	Gears             string
	Accessories       []string
	Pace              string
	Supply            string
	Climbing          string
	Mechanical        string
	RotationThreshold float64
	Difficulty        string
	Seed              uint64
	BudgetCheck       bool
}
