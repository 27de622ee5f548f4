package partner

import (
	"regexp"
	"strings"

	"github.com/erp/installments/internal/domain/shared"
)

var (
	validPhone = regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)
	validEmail = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Customer is a buyer of receipts and holder of debts
type Customer struct {
	shared.BaseEntity
	Name  string
	Phone string
	Email string
}

// NewCustomer creates a new customer
func NewCustomer(name, phone, email string) (*Customer, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	email = strings.TrimSpace(email)
	if err := validateName(name); err != nil {
		return nil, err
	}
	if phone != "" {
		if err := validatePhone(phone); err != nil {
			return nil, err
		}
	}
	if email != "" {
		if err := validateEmail(email); err != nil {
			return nil, err
		}
	}
	return &Customer{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Phone:      phone,
		Email:      email,
	}, nil
}

// Agent is a supplier the shop buys from on credit
type Agent struct {
	shared.BaseEntity
	Name  string
	Phone string
}

// NewAgent creates a new agent
func NewAgent(name, phone string) (*Agent, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if err := validateName(name); err != nil {
		return nil, err
	}
	if phone != "" {
		if err := validatePhone(phone); err != nil {
			return nil, err
		}
	}
	return &Agent{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Phone:      phone,
	}, nil
}

func validateName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 200 characters")
	}
	return nil
}

func validatePhone(phone string) error {
	if len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone number cannot exceed 50 characters")
	}
	if !validPhone.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Invalid phone number format")
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !validEmail.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
