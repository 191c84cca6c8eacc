package database

import (
	"database/sql"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver
)

// New creates a new database connection pool.
func New(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dataSourceName+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate runs the SQL statements to set up the database schema.
func Migrate(db *sql.DB) error {
	const sqlStmt = `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT NOT NULL PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		email TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);

	CREATE TABLE IF NOT EXISTS user_preferences (
		id TEXT NOT NULL PRIMARY KEY,
		user_id TEXT UNIQUE NOT NULL,
		currency TEXT DEFAULT 'INR',
		budget_alert_threshold INTEGER DEFAULT 80,
		enable_notifications BOOLEAN DEFAULT TRUE,
		theme TEXT DEFAULT 'light' CHECK (theme IN ('light', 'dark', 'auto')),
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS categories (
		id TEXT NOT NULL PRIMARY KEY,
		name TEXT UNIQUE NOT NULL,
		type TEXT DEFAULT 'both' CHECK (type IN ('income', 'expense', 'both')),
		icon TEXT,
		color TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT NOT NULL PRIMARY KEY,
		user_id TEXT NOT NULL,
		type TEXT NOT NULL CHECK (type IN ('income', 'expense')),
		category TEXT NOT NULL,
		amount REAL NOT NULL,
		transaction_date TEXT NOT NULL,
		description TEXT,
		merchant TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_transactions_user_date ON transactions(user_id, transaction_date);
	CREATE INDEX IF NOT EXISTS idx_transactions_category ON transactions(category);

	CREATE TABLE IF NOT EXISTS budgets (
		id TEXT NOT NULL PRIMARY KEY,
		user_id TEXT NOT NULL,
		category TEXT NOT NULL,
		limit_amount REAL NOT NULL,
		period TEXT DEFAULT 'monthly' CHECK (period IN ('monthly', 'yearly')),
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (user_id, category),
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS savings_goals (
		id TEXT NOT NULL PRIMARY KEY,
		user_id TEXT NOT NULL,
		goal_name TEXT NOT NULL,
		target_amount REAL NOT NULL,
		current_amount REAL DEFAULT 0,
		deadline TEXT NOT NULL,
		status TEXT DEFAULT 'active' CHECK (status IN ('active', 'completed', 'cancelled')),
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_savings_goals_user ON savings_goals(user_id);

	CREATE TABLE IF NOT EXISTS notifications (
		id TEXT NOT NULL PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		type TEXT NOT NULL CHECK (type IN ('budget_alert', 'goal_reminder', 'insight', 'general')),
		is_read BOOLEAN DEFAULT FALSE,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_notifications_user_read ON notifications(user_id, is_read);

	CREATE TABLE IF NOT EXISTS recurring_transactions (
		id TEXT NOT NULL PRIMARY KEY,
		user_id TEXT NOT NULL,
		type TEXT NOT NULL CHECK (type IN ('income', 'expense')),
		category TEXT NOT NULL,
		amount REAL NOT NULL,
		description TEXT,
		merchant TEXT,
		frequency TEXT NOT NULL CHECK (frequency IN ('daily', 'weekly', 'monthly', 'yearly')),
		start_date TEXT NOT NULL,
		end_date TEXT,
		is_active BOOLEAN DEFAULT TRUE,
		last_processed TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_recurring_user_active ON recurring_transactions(user_id, is_active);
	`
	if _, err := db.Exec(sqlStmt); err != nil {
		return err
	}
	return seedCategories(db)
}

// defaultCategories is the reference category set inserted on first start.
var defaultCategories = []struct {
	Name  string
	Type  string
	Icon  string
	Color string
}{
	{"Salary", "income", "briefcase", "#10b981"},
	{"Freelance", "income", "laptop", "#3b82f6"},
	{"Investments", "income", "trending-up", "#8b5cf6"},
	{"Other Income", "income", "dollar-sign", "#06b6d4"},
	{"Food & Dining", "expense", "utensils", "#ef4444"},
	{"Transportation", "expense", "car", "#f59e0b"},
	{"Shopping", "expense", "shopping-bag", "#ec4899"},
	{"Entertainment", "expense", "film", "#8b5cf6"},
	{"Utilities", "expense", "zap", "#10b981"},
	{"Healthcare", "expense", "heart", "#ef4444"},
	{"Education", "expense", "book", "#3b82f6"},
	{"Travel", "expense", "plane", "#06b6d4"},
	{"Insurance", "expense", "shield", "#6366f1"},
	{"Subscriptions", "expense", "refresh-cw", "#f59e0b"},
	{"Other", "both", "more-horizontal", "#6b7280"},
}

// seedCategories inserts the default category set, skipping names that already exist.
func seedCategories(db *sql.DB) error {
	stmt, err := db.Prepare(`
		INSERT INTO categories (id, name, type, icon, color)
		SELECT ?, ?, ?, ?, ?
		WHERE NOT EXISTS (SELECT 1 FROM categories WHERE name = ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range defaultCategories {
		if _, err := stmt.Exec(uuid.New().String(), c.Name, c.Type, c.Icon, c.Color, c.Name); err != nil {
			return err
		}
	}
	return nil
}
