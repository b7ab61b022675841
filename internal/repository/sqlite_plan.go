package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/recurrence"
)

// SQLitePlanRepo implements PlanRepo using a SQLite database.
type SQLitePlanRepo struct {
	db db.DBTX
}

// NewSQLitePlanRepo creates a new SQLitePlanRepo.
func NewSQLitePlanRepo(conn db.DBTX) *SQLitePlanRepo {
	return &SQLitePlanRepo{db: conn}
}

const planSelect = `SELECT p.id, p.title, p.description, p.category_id, p.start_date, p.end_date,
	p.completed_at, p.created_at, p.updated_at,
	r.rule_type, r.recurrence_interval, r.anchor_date, r.days_of_week, r.days_of_month, r.months_of_year
	FROM plans p LEFT JOIN recurrence_rules r ON r.plan_id = p.id`

func (r *SQLitePlanRepo) Create(ctx context.Context, p *domain.Plan) error {
	query := `INSERT INTO plans (id, title, description, category_id, start_date, end_date, completed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Title,
		p.Description,
		nullableString(p.CategoryID),
		nullableTimeToString(p.StartDate, dateLayout),
		nullableTimeToString(p.EndDate, dateLayout),
		nullableTimeToString(p.CompletedAt, time.RFC3339),
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting plan: %w", err)
	}
	if p.Rule != nil {
		if err := r.insertRule(ctx, p.ID, p.Rule, p.UpdatedAt); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLitePlanRepo) GetByID(ctx context.Context, id string) (*domain.Plan, error) {
	row := r.db.QueryRowContext(ctx, planSelect+` WHERE p.id = ?`, id)
	p, err := scanPlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("plan", id)
	}
	return p, err
}

func (r *SQLitePlanRepo) GetByIDPrefix(ctx context.Context, prefix string) (*domain.Plan, error) {
	if prefix == "" {
		return nil, notFound("plan", `""`)
	}
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(prefix)
	rows, err := r.db.QueryContext(ctx, planSelect+` WHERE p.id LIKE ? ESCAPE '\' ORDER BY p.id LIMIT 2`, escaped+"%")
	if err != nil {
		return nil, fmt.Errorf("resolving plan prefix: %w", err)
	}
	plans, err := collectPlans(rows)
	if err != nil {
		return nil, err
	}
	switch len(plans) {
	case 0:
		return nil, notFound("plan", prefix)
	case 1:
		return plans[0], nil
	default:
		return nil, fmt.Errorf("plan id prefix %q is ambiguous", prefix)
	}
}

func (r *SQLitePlanRepo) List(ctx context.Context, f PlanFilter) ([]*domain.Plan, error) {
	var where []string
	var args []any
	if f.CategoryID != "" {
		where = append(where, `p.category_id = ?`)
		args = append(args, f.CategoryID)
	}
	if f.TagName != "" {
		where = append(where, `EXISTS (SELECT 1 FROM plan_tags pt JOIN tags t ON t.id = pt.tag_id
			WHERE pt.plan_id = p.id AND t.name = ?)`)
		args = append(args, f.TagName)
	}
	if f.SomedayOnly {
		where = append(where, `p.start_date IS NULL AND p.end_date IS NULL`)
	}
	if f.OpenOnly {
		where = append(where, `p.completed_at IS NULL`)
	}
	if f.ActiveFrom != nil || f.ActiveTo != nil {
		where = append(where, `(p.start_date IS NOT NULL OR p.end_date IS NOT NULL)`)
	}
	if f.ActiveTo != nil {
		where = append(where, `(p.start_date IS NULL OR p.start_date <= ?)`)
		args = append(args, f.ActiveTo.Format(dateLayout))
	}
	if f.ActiveFrom != nil {
		where = append(where, `(p.end_date IS NULL OR p.end_date >= ?)`)
		args = append(args, f.ActiveFrom.Format(dateLayout))
	}

	query := planSelect
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY p.start_date IS NULL, p.start_date, p.title, p.id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	return collectPlans(rows)
}

func (r *SQLitePlanRepo) Update(ctx context.Context, p *domain.Plan) error {
	query := `UPDATE plans SET title = ?, description = ?, category_id = ?, start_date = ?, end_date = ?,
		completed_at = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		p.Title,
		p.Description,
		nullableString(p.CategoryID),
		nullableTimeToString(p.StartDate, dateLayout),
		nullableTimeToString(p.EndDate, dateLayout),
		nullableTimeToString(p.CompletedAt, time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating plan: %w", err)
	}
	return requireAffected(res, "plan", p.ID)
}

// Delete removes the plan; its rule and tag links go with it.
func (r *SQLitePlanRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting plan: %w", err)
	}
	return requireAffected(res, "plan", id)
}

func (r *SQLitePlanRepo) SaveRule(ctx context.Context, planID string, rule domain.RecurrenceRule) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM recurrence_rules WHERE plan_id = ?`, planID); err != nil {
		return fmt.Errorf("deleting recurrence rule: %w", err)
	}
	if rule == nil {
		return nil
	}
	return r.insertRule(ctx, planID, rule, time.Now().UTC())
}

func (r *SQLitePlanRepo) insertRule(ctx context.Context, planID string, rule domain.RecurrenceRule, createdAt time.Time) error {
	p := domain.ParamsOf(rule)
	query := `INSERT INTO recurrence_rules (id, plan_id, rule_type, recurrence_interval, anchor_date,
		days_of_week, days_of_month, months_of_year, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		uuid.New().String(),
		planID,
		string(p.Kind),
		p.Interval,
		p.Anchor.Format(dateLayout),
		joinInts(p.DaysOfWeek),
		joinInts(p.DaysOfMonth),
		joinInts(p.MonthsOfYear),
		createdAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting recurrence rule: %w", err)
	}
	return nil
}

func requireAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return notFound(kind, id)
	}
	return nil
}

func collectPlans(rows *sql.Rows) ([]*domain.Plan, error) {
	defer rows.Close()

	var plans []*domain.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plans: %w", err)
	}
	return plans, nil
}

// scanPlan returns sql.ErrNoRows unwrapped so callers can map it.
func scanPlan(s scanner) (*domain.Plan, error) {
	var p domain.Plan
	var createdAtStr, updatedAtStr string
	var categoryID, startStr, endStr, completedStr sql.NullString
	var ruleType, anchorStr, dowStr, domStr, moyStr sql.NullString
	var interval sql.NullInt64

	err := s.Scan(
		&p.ID, &p.Title, &p.Description, &categoryID, &startStr, &endStr,
		&completedStr, &createdAtStr, &updatedAtStr,
		&ruleType, &interval, &anchorStr, &dowStr, &domStr, &moyStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning plan: %w", err)
	}

	if categoryID.Valid {
		p.CategoryID = &categoryID.String
	}
	p.StartDate = parseNullableTime(startStr, dateLayout)
	p.EndDate = parseNullableTime(endStr, dateLayout)
	p.CompletedAt = parseNullableTime(completedStr, time.RFC3339)
	p.CreatedAt, p.UpdatedAt, err = parseTimestamps(createdAtStr, updatedAtStr)
	if err != nil {
		return nil, err
	}

	if ruleType.Valid {
		rule, err := decodeRule(ruleType.String, int(interval.Int64), anchorStr.String,
			dowStr.String, domStr.String, moyStr.String)
		if err != nil {
			return nil, fmt.Errorf("loading rule for plan %s: %w", p.ID, err)
		}
		p.Rule = rule
	}
	return &p, nil
}

// decodeRule rebuilds a stored rule through the validating builder, so a
// corrupt row surfaces as an error instead of a rule that never fires.
func decodeRule(kind string, interval int, anchor, dow, dom, moy string) (domain.RecurrenceRule, error) {
	anchorDate, err := time.Parse(dateLayout, anchor)
	if err != nil {
		return nil, fmt.Errorf("parsing anchor_date: %w", err)
	}
	weekdays, err := splitInts(dow)
	if err != nil {
		return nil, fmt.Errorf("parsing days_of_week: %w", err)
	}
	days, err := splitInts(dom)
	if err != nil {
		return nil, fmt.Errorf("parsing days_of_month: %w", err)
	}
	months, err := splitInts(moy)
	if err != nil {
		return nil, fmt.Errorf("parsing months_of_year: %w", err)
	}

	params := domain.RuleParams{
		Kind:         domain.RuleKind(kind),
		Interval:     interval,
		Anchor:       anchorDate,
		DaysOfMonth:  days,
		MonthsOfYear: months,
	}
	for _, w := range weekdays {
		params.DaysOfWeek = append(params.DaysOfWeek, time.Weekday(w))
	}
	return recurrence.Build(params)
}
