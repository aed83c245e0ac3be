package cfg

type Cfg struct {
	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Application configuration
	SourcesFile       string
	Port              string
	SchedulerInterval int
	AuthSecret        string
	RedisAddr         string
	Ingest            bool

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
