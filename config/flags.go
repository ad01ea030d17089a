package config

import (
	"flag"
	"io"
)

// parseFlags overlays command-line flags on c. args excludes the program name.
//
//	-a string    listen address
//	-driver      sqlite, mysql or postgres
//	-d string    data source name
//	-s string    session signing secret
//	-ttl         session lifetime (e.g. 1h)
//	-debug       enable debug mode (seeding)
//	-seed        seed fixture file
func parseFlags(c *Config, args []string) error {
	fs := flag.NewFlagSet("secure-notes", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&c.Addr, "a", c.Addr, "address and port to run server")
	fs.StringVar(&c.DBDriver, "driver", c.DBDriver, "database driver")
	fs.StringVar(&c.DSN, "d", c.DSN, "database DSN")
	fs.StringVar(&c.JWTSecret, "s", c.JWTSecret, "session signing secret")
	fs.DurationVar(&c.SessionTTL, "ttl", c.SessionTTL, "session lifetime")
	fs.BoolVar(&c.CookieSecure, "cookie-secure", c.CookieSecure, "mark the session cookie Secure")
	fs.IntVar(&c.BcryptCost, "bcrypt-cost", c.BcryptCost, "bcrypt cost")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "debug mode")
	fs.StringVar(&c.SeedFile, "seed", c.SeedFile, "seed fixture file, applied in debug mode")
	fs.StringVar(&c.CORSOrigin, "cors-origin", c.CORSOrigin, "allowed CORS origin")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level")
	fs.IntVar(&c.HourlyLimit, "rate-hourly", c.HourlyLimit, "requests per client per hour, 0 disables")
	fs.IntVar(&c.DailyLimit, "rate-daily", c.DailyLimit, "requests per client per day, 0 disables")
	fs.BoolVar(&c.TrustProxy, "trust-proxy", c.TrustProxy, "take the client address from proxy headers")

	return fs.Parse(args)
}
