package cli

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// StartCommand runs the capture loop and the dashboard server until
// interrupted.
type StartCommand struct {
	Port               int    `long:"port" description:"Override dashboard port"`
	Interval           int    `long:"interval" description:"Override capture interval in seconds"`
	StoragePath        string `long:"storage-path" description:"Override the data directory"`
	PrimaryMonitorOnly bool   `long:"primary-monitor-only" description:"Only record the primary monitor"`
	NoServer           bool   `long:"no-server" description:"Capture only, without the dashboard server"`

	globals *GlobalFlags
	version string
}

// StatusCommand shows archive statistics.
type StatusCommand struct {
	globals *GlobalFlags
	version string
}

// SearchCommand ranks entries against a query by embedding similarity.
type SearchCommand struct {
	Limit int `long:"limit" description:"Maximum results" default:"20"`

	globals *GlobalFlags
	version string
}
