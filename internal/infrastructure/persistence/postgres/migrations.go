package postgres

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_reference_data",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
		{
			Version: 2,
			Name:    "create_sessions",
			UpSQL:   migration002Up,
			DownSQL: migration002Down,
		},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: REFERENCE DATA
// Subjects, instructors, students, their subject tags, preferred slot sets,
// and per-instructor preference marks.
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create reference data tables
-- Version: 001

CREATE TABLE IF NOT EXISTS subjects (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(50) NOT NULL UNIQUE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS instructors (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(20) NOT NULL,
    education TEXT NOT NULL DEFAULT '',
    phone VARCHAR(15) NOT NULL DEFAULT '',
    notes TEXT NOT NULL DEFAULT '',
    -- Comma-separated slot numbers, e.g. '1,2,3'.
    preferred_slots TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS students (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(20) NOT NULL,
    grade SMALLINT NOT NULL DEFAULT 0,
    preferred_slots TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_grade CHECK (grade >= 0 AND grade <= 12)
);

CREATE TABLE IF NOT EXISTS instructor_subjects (
    instructor_id BIGINT NOT NULL REFERENCES instructors(id) ON DELETE CASCADE,
    subject_id BIGINT NOT NULL REFERENCES subjects(id) ON DELETE CASCADE,
    position INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (instructor_id, subject_id)
);

CREATE TABLE IF NOT EXISTS student_subjects (
    student_id BIGINT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
    subject_id BIGINT NOT NULL REFERENCES subjects(id) ON DELETE CASCADE,
    position INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (student_id, subject_id)
);

-- One preference mark per (student, instructor) pair: -1 avoid, 0 neutral, 1 preferred.
CREATE TABLE IF NOT EXISTS student_instructor_preferences (
    student_id BIGINT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
    instructor_id BIGINT NOT NULL REFERENCES instructors(id) ON DELETE CASCADE,
    preference SMALLINT NOT NULL DEFAULT 0,
    PRIMARY KEY (student_id, instructor_id),

    CONSTRAINT valid_preference CHECK (preference IN (-1, 0, 1))
);

CREATE INDEX IF NOT EXISTS idx_instructor_subjects_subject ON instructor_subjects(subject_id);
CREATE INDEX IF NOT EXISTS idx_student_subjects_subject ON student_subjects(subject_id);
`

const migration001Down = `
DROP TABLE IF EXISTS student_instructor_preferences;
DROP TABLE IF EXISTS student_subjects;
DROP TABLE IF EXISTS instructor_subjects;
DROP TABLE IF EXISTS students;
DROP TABLE IF EXISTS instructors;
DROP TABLE IF EXISTS subjects;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: SESSIONS
// Lesson sessions and enrollments. The date and slot are denormalized onto
// session_students so the database itself rejects a double-booked student.
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create session tables
-- Version: 002

CREATE TABLE IF NOT EXISTS lesson_sessions (
    id BIGSERIAL PRIMARY KEY,
    session_date DATE NOT NULL,
    time_slot SMALLINT NOT NULL,
    instructor_id BIGINT NOT NULL REFERENCES instructors(id),
    subject_id BIGINT NOT NULL REFERENCES subjects(id),
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_time_slot CHECK (time_slot >= 1 AND time_slot <= 4),
    CONSTRAINT uq_sessions_instructor_slot UNIQUE (session_date, time_slot, instructor_id)
);

CREATE TABLE IF NOT EXISTS session_students (
    session_id BIGINT NOT NULL REFERENCES lesson_sessions(id) ON DELETE CASCADE,
    student_id BIGINT NOT NULL REFERENCES students(id),
    session_date DATE NOT NULL,
    time_slot SMALLINT NOT NULL,
    PRIMARY KEY (session_id, student_id),

    CONSTRAINT uq_enrollments_student_slot UNIQUE (session_date, time_slot, student_id)
);

CREATE INDEX IF NOT EXISTS idx_sessions_date ON lesson_sessions(session_date);
CREATE INDEX IF NOT EXISTS idx_session_students_student ON session_students(student_id);
`

const migration002Down = `
DROP TABLE IF EXISTS session_students;
DROP TABLE IF EXISTS lesson_sessions;
`
