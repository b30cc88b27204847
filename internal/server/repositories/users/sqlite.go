package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/dmitrijs2005/usersapi/internal/common"
	"github.com/dmitrijs2005/usersapi/internal/dbx"
	"github.com/dmitrijs2005/usersapi/internal/schema"
	"github.com/dmitrijs2005/usersapi/internal/server/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
//
// A user is one row in users plus one row in each of names, locations and
// pictures keyed by the owner's username. Reads join the nested tables under
// aliases equal to the field names, which is what lets query paths like
// "location.zip" bind directly to columns.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func quote(name string) string {
	return `"` + name + `"`
}

func rootColumn(name string) string {
	return schema.Column(schema.RootAlias, name)
}

// selectUsers selects every column of schema.User. Scalars come first, then
// nested objects, each in declaration order; scanDest must follow suit.
func selectUsers() sq.SelectBuilder {
	var cols []string
	for _, f := range schema.User.Scalars() {
		cols = append(cols, rootColumn(f.Name))
	}
	for _, n := range schema.User.Nested() {
		for _, sub := range n.Object.Fields {
			zero := "''"
			if sub.Kind == schema.KindInt {
				zero = "0"
			}
			cols = append(cols, fmt.Sprintf("COALESCE(%s, %s)", schema.Column(n.Name, sub.Name), zero))
		}
	}

	b := sq.Select(cols...).From(schema.User.Table + " AS " + schema.RootAlias)
	for _, n := range schema.User.Nested() {
		b = b.LeftJoin(fmt.Sprintf("%s AS %s ON %s = %s",
			n.Object.Table, n.Name,
			schema.Column(n.Name, schema.OwnerColumn),
			rootColumn(schema.User.PrimaryKey)))
	}
	return b
}

func scanDest(u *models.User) []any {
	return []any{
		&u.Gender, &u.Email, &u.Username, &u.Password, &u.Salt,
		&u.MD5, &u.SHA1, &u.SHA256, &u.Registered, &u.Dob,
		&u.Phone, &u.Cell, &u.PPS,
		&u.Name.Title, &u.Name.First, &u.Name.Last,
		&u.Location.Street, &u.Location.City, &u.Location.State, &u.Location.Zip,
		&u.Picture.Large, &u.Picture.Medium, &u.Picture.Thumbnail,
	}
}

func userRow(u *models.User) map[string]any {
	return map[string]any{
		quote("username"):   u.Username,
		quote("gender"):     u.Gender,
		quote("email"):      u.Email,
		quote("password"):   u.Password,
		quote("salt"):       u.Salt,
		quote("md5"):        u.MD5,
		quote("sha1"):       u.SHA1,
		quote("sha256"):     u.SHA256,
		quote("registered"): u.Registered,
		quote("dob"):        u.Dob,
		quote("phone"):      u.Phone,
		quote("cell"):       u.Cell,
		quote("PPS"):        u.PPS,
	}
}

// nestedRows returns table -> row for every owned value of u.
func nestedRows(u *models.User) map[string]map[string]any {
	owner := quote(schema.OwnerColumn)
	return map[string]map[string]any{
		schema.Name.Table: {
			owner:          u.Username,
			quote("title"): u.Name.Title,
			quote("first"): u.Name.First,
			quote("last"):  u.Name.Last,
		},
		schema.Location.Table: {
			owner:           u.Username,
			quote("street"): u.Location.Street,
			quote("city"):   u.Location.City,
			quote("state"):  u.Location.State,
			quote("zip"):    u.Location.Zip,
		},
		schema.Picture.Table: {
			owner:              u.Username,
			quote("large"):     u.Picture.Large,
			quote("medium"):    u.Picture.Medium,
			quote("thumbnail"): u.Picture.Thumbnail,
		},
	}
}

// List returns users matching where in insertion order.
func (r *SQLiteRepository) List(ctx context.Context, where sq.Sqlizer) ([]models.User, error) {
	b := selectUsers().OrderBy(schema.RootAlias + ".rowid")
	if where != nil {
		b = b.Where(where)
	}

	rows, err := dbx.Query(ctx, r.db, b)
	if err != nil {
		return nil, fmt.Errorf("failed to select users: %w", err)
	}
	defer rows.Close()

	result := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(scanDest(&u)...); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user rows: %w", err)
	}
	return result, nil
}

// Get returns a single user by primary key.
func (r *SQLiteRepository) Get(ctx context.Context, username string) (*models.User, error) {
	row, err := dbx.QueryRow(ctx, r.db, selectUsers().Where(sq.Eq{rootColumn(schema.User.PrimaryKey): username}))
	if err != nil {
		return nil, fmt.Errorf("failed to get user[%s]: %w", username, err)
	}

	u := &models.User{}
	if err := row.Scan(scanDest(u)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to get user[%s]: %w", username, err)
	}
	return u, nil
}

// Insert adds the user row and its nested rows.
func (r *SQLiteRepository) Insert(ctx context.Context, u *models.User) error {
	if _, err := dbx.Exec(ctx, r.db, sq.Insert(schema.User.Table).SetMap(userRow(u))); err != nil {
		if isPrimaryKeyViolation(err) {
			return fmt.Errorf("user[%s]: %w", u.Username, common.ErrorConflict)
		}
		return fmt.Errorf("failed to insert user[%s]: %w", u.Username, err)
	}

	for _, n := range schema.User.Nested() {
		row := nestedRows(u)[n.Object.Table]
		if _, err := dbx.Exec(ctx, r.db, sq.Insert(n.Object.Table).SetMap(row)); err != nil {
			return fmt.Errorf("failed to insert %s of user[%s]: %w", n.Name, u.Username, err)
		}
	}
	return nil
}

// Save overwrites an existing user. It expects exactly one user row to be affected.
func (r *SQLiteRepository) Save(ctx context.Context, u *models.User) error {
	row := userRow(u)
	delete(row, quote(schema.User.PrimaryKey))

	res, err := dbx.Exec(ctx, r.db, sq.Update(schema.User.Table).
		SetMap(row).
		Where(sq.Eq{quote(schema.User.PrimaryKey): u.Username}))
	if err != nil {
		return fmt.Errorf("failed to update user[%s]: %w", u.Username, err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra != 1 {
		return fmt.Errorf("user[%s]: %w", u.Username, common.ErrorNotFound)
	}

	for _, n := range schema.User.Nested() {
		row := nestedRows(u)[n.Object.Table]
		if _, err := dbx.Exec(ctx, r.db, sq.Replace(n.Object.Table).SetMap(row)); err != nil {
			return fmt.Errorf("failed to update %s of user[%s]: %w", n.Name, u.Username, err)
		}
	}
	return nil
}

// Delete removes the nested rows, then the user row. Zero affected rows is fine.
func (r *SQLiteRepository) Delete(ctx context.Context, username string) error {
	for _, n := range schema.User.Nested() {
		q := sq.Delete(n.Object.Table).Where(sq.Eq{quote(schema.OwnerColumn): username})
		if _, err := dbx.Exec(ctx, r.db, q); err != nil {
			return fmt.Errorf("failed to delete %s of user[%s]: %w", n.Name, username, err)
		}
	}

	q := sq.Delete(schema.User.Table).Where(sq.Eq{quote(schema.User.PrimaryKey): username})
	if _, err := dbx.Exec(ctx, r.db, q); err != nil {
		return fmt.Errorf("failed to delete user[%s]: %w", username, err)
	}
	return nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	row, err := dbx.QueryRow(ctx, r.db, sq.Select("COUNT(*)").From(schema.User.Table))
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

func isPrimaryKeyViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT:
		return true
	}
	return false
}
