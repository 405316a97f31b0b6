package services

import (
	"errors"
	"strings"
	"time"

	"github.com/Govind-619/QuickBite/models"
	"github.com/Govind-619/QuickBite/utils"
	"gorm.io/gorm"
)

// Authentication errors
var (
	ErrEmailTaken         = utils.ConflictError("Email already registered", nil)
	ErrInvalidCredentials = utils.UnauthorizedError(utils.ErrInvalidCredentials, nil)
)

// RegisterInput is a customer sign-up
type RegisterInput struct {
	Name         string
	Email        string
	Phone        string
	Password     string
	ReferralCode string
}

// Membership is a customer's loyalty standing
type Membership struct {
	Tier             Tier         `json:"tier"`
	Points           int64        `json:"points"`
	LifetimeSpending float64      `json:"lifetime_spending"`
	Benefits         TierBenefits `json:"benefits"`
	Progress         TierProgress `json:"progress"`
}

// RegisterUser creates a customer account. A referral code given at sign-up
// is applied in the same transaction and an invalid one fails the sign-up.
func RegisterUser(db *gorm.DB, in RegisterInput) (*models.User, error) {
	in.Name = utils.SanitizeString(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if ok, msg := utils.ValidateName(in.Name); !ok {
		return nil, utils.BadRequestError(msg, nil)
	}
	if ok, msg := utils.ValidateEmail(in.Email); !ok {
		return nil, utils.BadRequestError(msg, nil)
	}
	if ok, msg := utils.ValidatePassword(in.Password); !ok {
		return nil, utils.BadRequestError(msg, nil)
	}
	if in.Phone != "" {
		phone, err := utils.FormatPhoneNumber(in.Phone)
		if err != nil {
			return nil, utils.BadRequestError("Invalid phone number", err)
		}
		in.Phone = phone
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:           in.Name,
		Email:          in.Email,
		Phone:          in.Phone,
		Password:       hash,
		Role:           models.RoleCustomer,
		MembershipTier: string(TierBronze),
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Unscoped().Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrEmailTaken
		}
		if err := tx.Create(&user).Error; err != nil {
			if isDuplicateKey(err) {
				return ErrEmailTaken
			}
			return err
		}
		if strings.TrimSpace(in.ReferralCode) != "" {
			referrer, err := applyReferral(tx, user.ID, in.ReferralCode)
			if err != nil {
				return err
			}
			user.ReferredBy = &referrer.ID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.LogInfo("Registered user %d (%s)", user.ID, user.Email)
	return &user, nil
}

// AuthenticateUser checks credentials and stamps the login time
func AuthenticateUser(db *gorm.DB, email, password string, now time.Time) (*models.User, error) {
	var user models.User
	if err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.CheckPassword(password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	if user.IsBlocked {
		return nil, ErrUserBlocked
	}

	if err := db.Model(&models.User{}).Where("id = ?", user.ID).Update("last_login_at", now).Error; err != nil {
		return nil, err
	}
	user.LastLoginAt = &now
	return &user, nil
}

// EnsureAdmin creates the first administrator when none with email exists
func EnsureAdmin(db *gorm.DB, email, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return false, nil
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return false, err
	}
	admin := models.User{
		Name:           "Administrator",
		Email:          email,
		Password:       hash,
		Role:           models.RoleAdmin,
		MembershipTier: string(TierBronze),
	}
	if err := db.Create(&admin).Error; err != nil {
		return false, err
	}
	utils.LogInfo("Seeded administrator %s", email)
	return true, nil
}

// ListCustomers pages through customer accounts, optionally by a name or
// email search
func ListCustomers(db *gorm.DB, search string, p *utils.Pagination) ([]models.User, error) {
	query := db.Model(&models.User{}).Where("role = ?", models.RoleCustomer)
	if search = strings.ToLower(strings.TrimSpace(search)); search != "" {
		like := "%" + search + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}
	p.SetTotal(total)

	var users []models.User
	if err := query.Scopes(p.Scope()).Order("created_at DESC, id DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// SetUserBlocked blocks or unblocks a customer
func SetUserBlocked(db *gorm.DB, userID uint, blocked bool) error {
	res := db.Model(&models.User{}).Where("id = ? AND role = ?", userID, models.RoleCustomer).Update("is_blocked", blocked)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	utils.LogInfo("User %d blocked=%t", userID, blocked)
	return nil
}

// GetMembership reports a customer's tier, benefits and progress
func GetMembership(db *gorm.DB, userID uint) (*Membership, error) {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	tier := EffectiveTier(user)
	return &Membership{
		Tier:             tier,
		Points:           user.MembershipPoints,
		LifetimeSpending: user.LifetimeSpending,
		Benefits:         BenefitsFor(tier),
		Progress:         NextTierProgress(user.LifetimeSpending),
	}, nil
}
