package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"voucher_market/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormMysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func newMockStore(t *testing.T, mock func(mock sqlmock.Sqlmock)) *GormStore {
	mockDB, m, err := sqlmock.New()
	require.NoError(t, err)
	mock(m)
	t.Cleanup(func() {
		assert.NoError(t, m.ExpectationsWereMet())
	})
	return newStoreOn(t, mockDB)
}

func newStoreOn(t *testing.T, conn *sql.DB) *GormStore {
	db, err := gorm.Open(gormMysql.New(gormMysql.Config{
		Conn:                      conn,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return NewGormStore(db)
}

func TestGormStore_CreateRedemption(t *testing.T) {
	ref := "ORD-1"
	testCases := []struct {
		name       string
		mock       func(mock sqlmock.Sqlmock)
		wantID     uint
		wantErr    error
		wantFields []string
	}{
		{
			name: "inserted",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO `redemptions` .*").
					WillReturnResult(sqlmock.NewResult(7, 1))
			},
			wantID: 7,
		},
		{
			name: "order reference already used",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO `redemptions` .*").
					WillReturnError(&mysql.MySQLError{
						Number:  1062,
						Message: "Duplicate entry 'ORD-1' for key 'redemptions.uniq_redemption_order_ref'",
					})
			},
			wantFields: []string{"order_id"},
		},
		{
			name: "database error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO `redemptions` .*").
					WillReturnError(errors.New("connection reset"))
			},
			wantErr: errors.New("connection reset"),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := newMockStore(t, tc.mock)
			r := domain.Redemption{
				VoucherID:        1,
				IdentityID:       2,
				VendorID:         3,
				ExternalOrderRef: &ref,
				Source:           "web",
				Status:           domain.RedemptionActive,
			}
			err := s.CreateRedemption(context.Background(), &r)
			switch {
			case tc.wantFields != nil:
				var de *DuplicateError
				require.ErrorAs(t, err, &de)
				assert.Equal(t, "uniq_redemption_order_ref", de.Index)
				assert.Equal(t, tc.wantFields, de.Fields)
			case tc.wantErr != nil:
				assert.Equal(t, tc.wantErr, err)
				var de *DuplicateError
				assert.False(t, errors.As(err, &de))
			default:
				require.NoError(t, err)
				assert.Equal(t, tc.wantID, r.ID)
			}
		})
	}
}

func TestGormStore_CodeExists(t *testing.T) {
	testCases := []struct {
		name  string
		kind  domain.CodeKind
		mock  func(mock sqlmock.Sqlmock)
		count int64
		want  bool
	}{
		{
			name: "referral code taken",
			kind: domain.CodeReferral,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT count\\(\\*\\) FROM `affiliates` WHERE referral_code = \\?").
					WithArgs("REFABCDEF").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
			},
			want: true,
		},
		{
			name: "order code free",
			kind: domain.CodeOrder,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT count\\(\\*\\) FROM `orders` WHERE code = \\?").
					WithArgs("REFABCDEF").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
			},
			want: false,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := newMockStore(t, tc.mock)
			got, err := s.CodeExists(context.Background(), tc.kind, "REFABCDEF")
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGormStore_CodeExistsUnknownKind(t *testing.T) {
	s := newMockStore(t, func(mock sqlmock.Sqlmock) {})
	_, err := s.CodeExists(context.Background(), domain.CodeKind(99), "X")
	assert.Error(t, err)
}

func TestGormStore_FindProfileID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		s := newMockStore(t, func(mock sqlmock.Sqlmock) {
			mock.ExpectQuery("SELECT `id` FROM `vendors` WHERE identity_id = \\?.*").
				WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))
		})
		id, err := s.FindProfileID(context.Background(), domain.RoleVendor, 5)
		require.NoError(t, err)
		assert.Equal(t, uint(12), id)
	})
	t.Run("no profile", func(t *testing.T) {
		s := newMockStore(t, func(mock sqlmock.Sqlmock) {
			mock.ExpectQuery("SELECT `id` FROM `members` WHERE identity_id = \\?.*").
				WillReturnRows(sqlmock.NewRows([]string{"id"}))
		})
		_, err := s.FindProfileID(context.Background(), domain.RoleMember, 5)
		assert.ErrorIs(t, err, ErrNotFound)
	})
	t.Run("unknown role", func(t *testing.T) {
		s := newMockStore(t, func(mock sqlmock.Sqlmock) {})
		_, err := s.FindProfileID(context.Background(), domain.RoleUnknown, 5)
		assert.Error(t, err)
	})
}

func TestGormStore_TransactionRollsBack(t *testing.T) {
	s := newMockStore(t, func(mock sqlmock.Sqlmock) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO `identities` .*").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO `vendors` .*").
			WillReturnError(&mysql.MySQLError{
				Number:  1062,
				Message: "Duplicate entry 'shop@example.com' for key 'vendors.uniq_vendor_email'",
			})
		mock.ExpectRollback()
	})
	err := s.Transaction(context.Background(), func(tx Store) error {
		id := domain.Identity{Name: "Shop", Email: "shop@example.com", Role: domain.RoleVendor, Status: domain.StatusActive}
		if err := tx.CreateIdentity(context.Background(), &id); err != nil {
			return err
		}
		return tx.CreateVendor(context.Background(), &domain.Vendor{
			Code:       "VAB1207",
			Name:       "Shop",
			Email:      "shop@example.com",
			IdentityID: id.ID,
			Status:     domain.StatusActive,
		})
	})
	var de *DuplicateError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, []string{"email"}, de.Fields)
}

func TestGormStore_TransitionOrderPayment(t *testing.T) {
	testCases := []struct {
		name     string
		affected int64
		want     bool
	}{
		{name: "moved", affected: 1, want: true},
		{name: "not in from status", affected: 0, want: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := newMockStore(t, func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE `orders` SET `payment_status`=\\?,`updated_at`=\\? WHERE id = \\? AND payment_status = \\?").
					WillReturnResult(sqlmock.NewResult(0, tc.affected))
			})
			got, err := s.TransitionOrderPayment(context.Background(), 3, domain.PaymentPending, domain.PaymentPaid)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGormStore_VendorStatus(t *testing.T) {
	s := newMockStore(t, func(mock sqlmock.Sqlmock) {
		mock.ExpectExec("UPDATE `vendors` SET `status`=\\?,`updated_at`=\\? WHERE id = \\?").
			WithArgs(domain.StatusSuspended, sqlmock.AnyArg(), 7).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("SELECT \\* FROM `vendors` WHERE `vendors`.`id` = \\?.*").
			WillReturnRows(sqlmock.NewRows([]string{"id", "code", "status"}).AddRow(7, "VAB1207", int64(domain.StatusSuspended)))
		mock.ExpectQuery("SELECT \\* FROM `vendors` WHERE `vendors`.`id` = \\?.*").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
	})
	ctx := context.Background()
	require.NoError(t, s.UpdateVendorStatus(ctx, 7, domain.StatusSuspended))

	v, err := s.FindVendor(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "VAB1207", v.Code)
	assert.False(t, v.Active())

	_, err = s.FindVendor(ctx, 8)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTranslate(t *testing.T) {
	testCases := []struct {
		name      string
		err       error
		wantIndex string
		wantField string
	}{
		{
			name:      "mysql 8 key name",
			err:       &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'x' for key 'affiliates.uniq_affiliate_referral'"},
			wantIndex: "uniq_affiliate_referral",
			wantField: "referral_code",
		},
		{
			name:      "mysql 5.7 key name",
			err:       &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'x' for key 'uniq_member_email'"},
			wantIndex: "uniq_member_email",
			wantField: "email",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var de *DuplicateError
			require.ErrorAs(t, translate(tc.err), &de)
			assert.Equal(t, tc.wantIndex, de.Index)
			assert.Equal(t, []string{tc.wantField}, de.Fields)
		})
	}
	other := &mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"}
	assert.Equal(t, error(other), translate(other))
	assert.NoError(t, translate(nil))
}

func TestOrderBy(t *testing.T) {
	testCases := []struct {
		name string
		page Page
		want string
	}{
		{name: "default column", page: Page{SortBy: "nope"}, want: "redeemed_at DESC, id DESC"},
		{name: "ascending", page: Page{SortBy: "created_at", Asc: true}, want: "created_at ASC, id ASC"},
		{name: "by id", page: Page{SortBy: "id"}, want: "id DESC"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, orderBy(tc.page, RedemptionSortable, "redeemed_at"))
		})
	}
}
