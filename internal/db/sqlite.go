package db

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	path string
	conn *sql.DB
}

func NewSQLite(path string) *SQLite {
	if path == "" {
		path = "./database.db"
	}
	return &SQLite{path: path}
}

func (s *SQLite) InitDB() error {
	var err error
	s.conn, err = sql.Open("sqlite3", s.path)
	if err != nil {
		return err
	}

	res, err := s.conn.Exec(Schema)
	dbLogger.Info().Any("db_result", res).Msg("Database initialized")
	return err
}

// Schema creates every table the panel touches. pedido_items rows are
// written by the storefront, not by this service, but the table must
// exist for the sales reports and for local development seeds.
const Schema = `
PRAGMA foreign_keys = ON;

CREATE TABLE IF NOT EXISTS admin_users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    email TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'admin',
    is_active INTEGER NOT NULL DEFAULT 1,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS admin_sessions (
    token TEXT PRIMARY KEY,
    admin_id INTEGER NOT NULL,
    expires_at DATETIME NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY(admin_id) REFERENCES admin_users(id)
);

CREATE TABLE IF NOT EXISTS menu (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    nombre TEXT NOT NULL,
    descripcion TEXT NOT NULL,
    tipo INTEGER NOT NULL DEFAULT 1,
    activo INTEGER NOT NULL DEFAULT 1,
    precio_oriente REAL NOT NULL DEFAULT 0,
    precio_area_metrop REAL NOT NULL DEFAULT 0,
    precio_resto_pais REAL NOT NULL DEFAULT 0,
    cantidad INTEGER NOT NULL DEFAULT 0,
    imagen TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS coordenadas_pv (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    departamento TEXT NOT NULL,
    municipio TEXT NOT NULL,
    direccion TEXT NOT NULL,
    barrio TEXT NOT NULL DEFAULT '...',
    latitud REAL NOT NULL,
    longitud REAL NOT NULL,
    num_whatsapp TEXT,
    url_image TEXT
);

CREATE TABLE IF NOT EXISTS landing_hero (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    tag TEXT,
    image_url TEXT NOT NULL,
    order_index INTEGER NOT NULL DEFAULT 0,
    is_active INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS landing_about (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    tagline TEXT,
    body TEXT NOT NULL DEFAULT '',
    image_url TEXT NOT NULL,
    badge_text TEXT,
    cta_text TEXT NOT NULL DEFAULT 'Pide aquí',
    cta_href TEXT NOT NULL DEFAULT '/stores',
    instagram_handle TEXT
);

CREATE TABLE IF NOT EXISTS landing_instagram (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    image_url TEXT NOT NULL,
    caption TEXT,
    href TEXT,
    order_index INTEGER NOT NULL DEFAULT 0,
    is_active INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS usercocina (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    administrador TEXT NOT NULL,
    correo TEXT UNIQUE NOT NULL,
    contrasena TEXT NOT NULL,
    punto_venta TEXT UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS shifts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    store_id INTEGER NOT NULL,
    opened_by TEXT,
    opened_at DATETIME NOT NULL,
    closed_at DATETIME,
    notes TEXT,
    admin_name TEXT,
    sede_name TEXT,
    expires_at DATETIME,
    warning_sent_at DATETIME,
    extended_minutes INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS pedido_items (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    menu_id INTEGER NOT NULL,
    nombre_snapshot TEXT,
    qty INTEGER NOT NULL DEFAULT 0,
    line_total REAL NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL,
    pv_id INTEGER
);
`

func (s *SQLite) Get() *sql.DB {
	return s.conn
}

func (s *SQLite) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

func (s *SQLite) Query(query string, args ...interface{}) (*sql.Rows, error) {
	dbLogger.Debug().Str("query", query).Msg("Query")
	return s.conn.Query(query, args...)
}

func (s *SQLite) Exec(query string, args ...interface{}) (sql.Result, error) {
	dbLogger.Debug().Str("query", query).Msg("Exec")
	return s.conn.Exec(query, args...)
}
