package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"budget/internal/db"
	"budget/internal/services"
	"budget/internal/store"
	"budget/internal/websocket"
)

// Manager opens and caches user workspaces. Opening is lazy: the first
// request after login (or after a restore) pays the migration cost, later
// requests reuse the cached connection.
type Manager struct {
	mu      sync.Mutex
	dataDir string
	hub     *websocket.Hub
	open    map[string]*Workspace
}

func NewManager(dataDir string, hub *websocket.Hub) *Manager {
	return &Manager{
		dataDir: dataDir,
		hub:     hub,
		open:    make(map[string]*Workspace),
	}
}

func (m *Manager) Path(userID string) string {
	return filepath.Join(m.dataDir, userID+".db")
}

func (m *Manager) Get(ctx context.Context, userID string) (*Workspace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ws, ok := m.open[userID]; ok {
		return ws, nil
	}
	ws, err := m.openLocked(userID)
	if err != nil {
		return nil, err
	}
	m.open[userID] = ws
	return ws, nil
}

func (m *Manager) openLocked(userID string) (*Workspace, error) {
	if err := os.MkdirAll(m.dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	path := m.Path(userID)
	conn, err := db.Open(path)
	if err != nil {
		return nil, err
	}
	if err := db.MigrateUser(conn); err != nil {
		conn.Close()
		return nil, err
	}

	txRunner := &db.SQLXTxRunner{DB: conn}
	months := store.NewMonthStore(conn)
	accounts := store.NewAccountStore(conn)
	cards := store.NewCardStore(conn)
	balances := store.NewBalanceStore(conn)
	templates := store.NewTemplateStore(conn)
	objectives := store.NewObjectiveStore(conn)
	transactions := store.NewTransactionStore(conn)

	return &Workspace{
		Ledger:  services.NewLedgerService(userID, txRunner, months, accounts, cards, balances, templates, transactions, m.hub),
		Reports: services.NewReportService(months, transactions, transactions, accounts, cards, balances, objectives, templates),
		Setup:   services.NewSetupService(txRunner, accounts, cards, templates, objectives),
		path:    path,
		conn:    conn,
	}, nil
}

// Snapshot produces a consistent single-file copy of the user's ledger,
// suitable for download while the database stays open.
func (m *Manager) Snapshot(ctx context.Context, userID string) ([]byte, error) {
	ws, err := m.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	tmp := ws.path + ".snapshot"
	defer os.Remove(tmp)
	if _, err := ws.conn.ExecContext(ctx, "VACUUM INTO ?", tmp); err != nil {
		return nil, fmt.Errorf("snapshot ledger: %w", err)
	}
	return os.ReadFile(tmp)
}

// Restore replaces the user's ledger file with an uploaded snapshot. The
// snapshot is validated before anything is touched; the live connection is
// closed, the file swapped, and the next Get reopens and re-migrates it.
func (m *Manager) Restore(ctx context.Context, userID string, data []byte) error {
	if err := db.ValidateSnapshot(data); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if ws, ok := m.open[userID]; ok {
		if err := ws.Close(); err != nil {
			return fmt.Errorf("close workspace: %w", err)
		}
		delete(m.open, userID)
	}
	if err := os.MkdirAll(m.dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	path := m.Path(userID)
	staged := path + ".restore"
	if err := os.WriteFile(staged, data, 0o600); err != nil {
		return fmt.Errorf("stage restore: %w", err)
	}
	// WAL sidecars of the old database must not shadow the new file
	os.Remove(path + "-wal")
	os.Remove(path + "-shm")
	if err := os.Rename(staged, path); err != nil {
		os.Remove(staged)
		return fmt.Errorf("swap ledger file: %w", err)
	}
	return nil
}

func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for userID, ws := range m.open {
		_ = ws.Close()
		delete(m.open, userID)
	}
}
