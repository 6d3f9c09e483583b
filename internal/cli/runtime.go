package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gofrs/flock"

	"github.com/sadopc/minima/internal/config"
	"github.com/sadopc/minima/internal/store"
	"github.com/sadopc/minima/internal/workspace"
)

var errAlreadyRunning = errors.New("another instance of minima is already running")

// runtime is an opened database plus the session over it.
type runtime struct {
	cfg     *config.Config
	store   *store.Store
	session *workspace.Session
	lock    *flock.Flock
}

// openRuntime opens the database, seeds it when empty and configured to, and
// loads the session. exclusive takes the single-instance lock first.
func openRuntime(cfg *config.Config, exclusive bool) (*runtime, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	rt := &runtime{cfg: cfg}
	if exclusive {
		if err := rt.acquireLock(); err != nil {
			return nil, err
		}
	}

	st, err := store.New(cfg.Database())
	if err != nil {
		rt.releaseLock()
		return nil, fmt.Errorf("open database: %w", err)
	}
	rt.store = st

	if cfg.SeedDemo {
		empty, err := st.IsEmpty()
		if err != nil {
			rt.Close()
			return nil, err
		}
		if empty {
			if err := st.Seed(time.Now()); err != nil {
				rt.Close()
				return nil, fmt.Errorf("seed demo data: %w", err)
			}
		}
	}

	sess, err := workspace.Open(st, cfg.CurrentUser, workspace.WithClassifier(cfg.Classifier()))
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("load workspace: %w", err)
	}
	rt.session = sess
	return rt, nil
}

func (rt *runtime) acquireLock() error {
	rt.lock = flock.New(rt.cfg.LockPath())
	locked, err := rt.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		return errAlreadyRunning
	}
	return nil
}

func (rt *runtime) releaseLock() {
	if rt.lock != nil {
		rt.lock.Unlock()
	}
}

func (rt *runtime) Close() error {
	var err error
	if rt.store != nil {
		err = rt.store.Close()
	}
	rt.releaseLock()
	return err
}
