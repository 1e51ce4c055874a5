package storage

const schema = `
-- 'words' holds the vocabulary. Words imported from a source keep the source
-- and a content hash so later syncs can find them again.
CREATE TABLE IF NOT EXISTS words (
    id TEXT PRIMARY KEY,
    word TEXT NOT NULL,
    definition TEXT NOT NULL,
    learned INTEGER NOT NULL DEFAULT 0,
    learned_at DATETIME,
    times_practiced INTEGER NOT NULL DEFAULT 0,
    last_practiced_at DATETIME,
    source_id INTEGER,
    hash TEXT,

    FOREIGN KEY(source_id) REFERENCES sources(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_words_source ON words(source_id, hash);

CREATE TABLE IF NOT EXISTS lessons (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    completed INTEGER NOT NULL DEFAULT 0,
    completed_at DATETIME,
    score INTEGER
);

-- One row per calendar day, keyed by its YYYY-MM-DD form.
CREATE TABLE IF NOT EXISTS activities (
    date TEXT PRIMARY KEY,
    lessons_completed INTEGER NOT NULL DEFAULT 0,
    words_learned INTEGER NOT NULL DEFAULT 0,
    practice_time INTEGER NOT NULL DEFAULT 0
);

-- The 'sources' table tracks where imported words come from, either a local
-- directory or a git repository.
CREATE TABLE IF NOT EXISTS sources (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    path TEXT NOT NULL UNIQUE,
    type TEXT NOT NULL DEFAULT 'local',
    last_scanned DATETIME
);
`
