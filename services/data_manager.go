package services

import (
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"github.com/LordOfNightmares/srvpro/config"
)

// errRollback aborts a unit of work without touching the diagnostic
// sink. It marks a policy rejection, not a storage fault.
var errRollback = errors.New("unit of work rejected")

/*
 * 'DataManager' is the persistence facade for the game server: the
 * replay archive, the duel log archive, the ban registry, user profiles
 * and the VIP key registry. No operation ever surfaces a storage fault
 * to the caller; faults go to the diagnostic sink as warnings and the
 * caller sees a nil/empty/false result instead.
 */
type DataManager struct {
	cfg   config.Config
	db    *gorm.DB
	log   *slog.Logger
	Ready bool
}

// NewDataManager builds a facade over the given connection descriptor.
// The logger is the diagnostic sink; nil falls back to slog.Default().
func NewDataManager(cfg config.Config, log *slog.Logger) *DataManager {
	if log == nil {
		log = slog.Default()
	}
	return &DataManager{cfg: cfg, log: log}
}

// Init opens the database connection. This is the one operation that
// reports an error directly: nothing else works until it succeeds.
func (dm *DataManager) Init() error {
	db, err := config.Connect(dm.cfg)
	if err != nil {
		return err
	}
	dm.db = db
	dm.Ready = true
	return nil
}

// atomically runs fn inside one transaction, committing only when it
// returns nil. Any error rolls the transaction back; unless it is
// errRollback it is also logged as a warning. The error itself never
// escapes, only the boolean outcome.
func (dm *DataManager) atomically(op string, fn func(tx *gorm.DB) error) bool {
	err := dm.db.Transaction(fn)
	if err == nil {
		return true
	}
	if !errors.Is(err, errRollback) {
		dm.log.Warn("transaction rolled back", "op", op, "error", err)
	}
	return false
}
