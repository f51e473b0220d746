package stores

import (
	"database/sql"
	"fmt"

	"magnetic-field-service/internal/adapters/cache"
	"magnetic-field-service/internal/adapters/repositories"
	"magnetic-field-service/internal/config"
	"magnetic-field-service/internal/platform/db"
	"magnetic-field-service/internal/ports"

	"github.com/redis/go-redis/v9"
)

// Stores holds the persistence adapters selected by the environment.
// Cache is nil when REDIS_ADDR is unset.
type Stores struct {
	DB     *sql.DB
	Client *redis.Client
	Cache  ports.FieldCache
	Repo   ports.RunRepository
}

// Open connects the run store named by DB_DRIVER, initializes its schema
// and, when REDIS_ADDR is set, the field cache.
func Open() (*Stores, error) {
	driver := config.Get("DB_DRIVER", "sqlite")
	dsn := config.Get("DB_PATH", "data/runs.db")
	if driver == "pgx" {
		dsn = config.Get("DATABASE_URL", "")
		if dsn == "" {
			return nil, fmt.Errorf("open stores: DATABASE_URL is required when DB_DRIVER=pgx")
		}
	}

	conn, err := db.OpenDriver(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open stores: %w", err)
	}
	if err := repositories.InitSchemaFor(conn, driver); err != nil {
		conn.Close()
		return nil, fmt.Errorf("open stores: %w", err)
	}

	st := &Stores{DB: conn}
	if driver == "pgx" {
		st.Repo = repositories.NewSQLRunRepository(conn)
	} else {
		st.Repo = repositories.NewSqliteRunRepository(conn)
	}

	if addr := config.Get("REDIS_ADDR", ""); addr != "" {
		st.Client = redis.NewClient(&redis.Options{Addr: addr})
		st.Cache = cache.NewRedisFieldCache(st.Client, config.GetDuration("CACHE_TTL", 0))
	}

	return st, nil
}

func (s *Stores) Close() {
	if s.Client != nil {
		_ = s.Client.Close()
	}
	_ = s.DB.Close()
}
