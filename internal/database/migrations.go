package database

const schema = `
CREATE TABLE IF NOT EXISTS images (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    prompt TEXT NOT NULL,
    filename TEXT NOT NULL,
    filepath TEXT NOT NULL,
    provider TEXT NOT NULL,
    created_at DATETIME NOT NULL,
    width INTEGER,
    height INTEGER,
    extra_data TEXT
);

CREATE INDEX IF NOT EXISTS idx_images_created_at ON images (created_at);
`
