package database

// Config holds configuration for the database connection.
type Config struct {
	// Driver is the database driver (sqlite, mysql).
	Driver string `mapstructure:"driver" default:"sqlite" validate:"oneof=sqlite mysql"`
	// Path is the SQLite database file, or ":memory:".
	Path string `mapstructure:"path" default:"jobads.db"`
	// Host is the MySQL database host.
	Host string `mapstructure:"host" default:"localhost"`
	// Port is the MySQL database port.
	Port int `mapstructure:"port" default:"3306"`
	// User is the MySQL database user.
	User string `mapstructure:"user" default:"root"`
	// Password is the MySQL database password.
	Password string `mapstructure:"password" default:""`
	// Name is the MySQL database name.
	Name string `mapstructure:"name" default:"jobads"`
	// TimeoutSeconds bounds connection setup and the initial ping.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)
