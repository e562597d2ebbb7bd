package store

// Schema v1 - catalog tables.
// Table and column names are shared with existing catalog databases and
// must not change.
const schemaV1 = `
-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
  version INTEGER PRIMARY KEY,
  applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Media files, relative to the library root
CREATE TABLE IF NOT EXISTS file (
  id INTEGER PRIMARY KEY NOT NULL,
  relative_path TEXT UNIQUE NOT NULL
);

-- A song may exist without a file (metadata-only entry)
CREATE TABLE IF NOT EXISTS song (
  id INTEGER PRIMARY KEY NOT NULL,
  title TEXT NOT NULL,
  source TEXT,
  youtube_id TEXT,
  thumbnail_url TEXT,
  file_id INTEGER UNIQUE REFERENCES file(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS artist (
  id INTEGER PRIMARY KEY NOT NULL,
  name TEXT UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS album (
  id INTEGER PRIMARY KEY NOT NULL,
  name TEXT UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS genre (
  id INTEGER PRIMARY KEY NOT NULL,
  name TEXT UNIQUE NOT NULL
);

-- Junction tables: the pair is the identity
CREATE TABLE IF NOT EXISTS songs_artists (
  song_id INTEGER NOT NULL REFERENCES song(id) ON DELETE CASCADE,
  artist_id INTEGER NOT NULL REFERENCES artist(id) ON DELETE CASCADE,
  PRIMARY KEY (song_id, artist_id)
);

CREATE TABLE IF NOT EXISTS songs_albums (
  song_id INTEGER NOT NULL REFERENCES song(id) ON DELETE CASCADE,
  album_id INTEGER NOT NULL REFERENCES album(id) ON DELETE CASCADE,
  PRIMARY KEY (song_id, album_id)
);

CREATE TABLE IF NOT EXISTS songs_genres (
  song_id INTEGER NOT NULL REFERENCES song(id) ON DELETE CASCADE,
  genre_id INTEGER NOT NULL REFERENCES genre(id) ON DELETE CASCADE,
  PRIMARY KEY (song_id, genre_id)
);
`

// Schema v2 - reverse lookups ("all songs by this artist").
// The composite primary keys already cover lookups by song_id.
const schemaV2 = `
CREATE INDEX IF NOT EXISTS idx_songs_artists_artist_id ON songs_artists(artist_id);
CREATE INDEX IF NOT EXISTS idx_songs_albums_album_id ON songs_albums(album_id);
CREATE INDEX IF NOT EXISTS idx_songs_genres_genre_id ON songs_genres(genre_id);
CREATE INDEX IF NOT EXISTS idx_song_title ON song(title COLLATE NOCASE);
`
