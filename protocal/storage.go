package protocal

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"picturedrive/configs"
	"picturedrive/internal/adapters/output/memory"
	"picturedrive/internal/adapters/output/mongodb"
	"picturedrive/internal/adapters/output/postgres"
	"picturedrive/internal/ports/output"
	"picturedrive/pkg/database_driver/gorm"
	"picturedrive/pkg/database_driver/mongo"
)

// storage groups the repositories of the selected driver
type storage struct {
	accounts output.AccountRepository
	folders  output.FolderRepository
	health   interface {
		Ping(ctx context.Context) error
	}
	close func() error
}

type memoryHealth struct{}

func (memoryHealth) Ping(context.Context) error { return nil }

func openStorage(ctx context.Context, conf *configs.Config) (*storage, error) {
	logrus.WithField("driver", conf.Storage.Driver).Info("Opening storage ...")

	switch conf.Storage.Driver {
	case configs.DriverPostgres:
		db, err := gorm.ConnectToPostgreSQL(
			conf.Postgres.Host,
			conf.Postgres.Port,
			conf.Postgres.Username,
			conf.Postgres.Password,
			conf.Postgres.DbName,
			conf.Postgres.SSLMode,
		)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(db.Postgres); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &storage{
			accounts: postgres.NewAccountRepository(db.Postgres),
			folders:  postgres.NewFolderRepository(db.Postgres),
			health:   db,
			close:    db.Close,
		}, nil

	case configs.DriverMongoDB:
		db, err := mongo.ConnectToMongo(ctx, conf.MongoDB.URI, conf.MongoDB.Database)
		if err != nil {
			return nil, err
		}
		if err := mongodb.EnsureIndexes(ctx, db.Database); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &storage{
			accounts: mongodb.NewAccountRepository(db.Database),
			folders:  mongodb.NewFolderRepository(db.Database),
			health:   db,
			close:    db.Close,
		}, nil

	case configs.DriverMemory:
		logrus.Warn("Memory storage selected, accounts and folders are lost on restart")
		return &storage{
			accounts: memory.NewAccountRepository(),
			folders:  memory.NewFolderRepository(),
			health:   memoryHealth{},
			close:    func() error { return nil },
		}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", conf.Storage.Driver)
}
