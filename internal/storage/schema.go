// ABOUTME: SQLite schema for the authoritative document store
// ABOUTME: Documents own their chunks; vectors are stored as BLOBs alongside chunk text
package storage

// Schema contains all SQL statements for database initialization
const Schema = `
-- Source documents (authoritative record; the vector index derives from this)
CREATE TABLE IF NOT EXISTS documents (
    id TEXT PRIMARY KEY,
    source_name TEXT NOT NULL,
    content TEXT NOT NULL,
    role_tag TEXT NOT NULL DEFAULT 'admin',
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Chunks table (embedded passages, one-to-many with documents)
CREATE TABLE IF NOT EXISTS chunks (
    id TEXT PRIMARY KEY,
    document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
    chunk_index INTEGER NOT NULL,
    text TEXT NOT NULL,
    vector BLOB NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Search history (answered queries, for the dashboard)
CREATE TABLE IF NOT EXISTS search_history (
    id TEXT PRIMARY KEY,
    query TEXT NOT NULL,
    answer_summary TEXT,
    role TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Indexes for efficient querying
CREATE INDEX IF NOT EXISTS idx_chunks_document ON chunks(document_id);
CREATE INDEX IF NOT EXISTS idx_documents_source ON documents(source_name);
CREATE INDEX IF NOT EXISTS idx_history_created ON search_history(created_at);
`

// SchemaVersion is the current schema version for migrations
const SchemaVersion = 1
