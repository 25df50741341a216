package store

const schema = `
CREATE TABLE IF NOT EXISTS followdata (
    company_name         TEXT NOT NULL,
    organizer_code       TEXT NOT NULL,
    organizer_name       TEXT NOT NULL DEFAULT '',
    seminar_title        TEXT NOT NULL DEFAULT '',
    seminar_date         DATETIME NOT NULL,
    status               TEXT NOT NULL DEFAULT '',
    user_company         TEXT NOT NULL DEFAULT '',
    employee_size        TEXT NOT NULL DEFAULT '',
    position_category    TEXT NOT NULL DEFAULT '',
    post_survey_answer_1 TEXT NOT NULL DEFAULT '',
    post_survey_answer_2 TEXT NOT NULL DEFAULT '',
    post_survey_answer_3 TEXT NOT NULL DEFAULT '',
    desired_follow_up    TEXT NOT NULL DEFAULT '',
    pre_survey_answer_2  TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_followdata_organizer ON followdata(organizer_code);
CREATE INDEX IF NOT EXISTS idx_followdata_company ON followdata(company_name);
CREATE INDEX IF NOT EXISTS idx_followdata_date ON followdata(seminar_date);
`
