package hybridcontent

import (
	"fmt"
	"strings"
)

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidRecord, field)
	}
	return nil
}

// Validate checks the fields a restaurant content row cannot be stored without.
func (c *RestaurantContent) Validate() error {
	return required("external_id", c.ExternalID)
}

// Validate checks the fields a menu category row cannot be stored without.
func (c *MenuCategory) Validate() error {
	if err := required("external_id", c.ExternalID); err != nil {
		return err
	}
	if err := required("restaurant_external_id", c.RestaurantExternalID); err != nil {
		return err
	}
	return required("name", c.Name)
}

// Validate checks the fields a menu item row cannot be stored without.
func (i *MenuItem) Validate() error {
	if err := required("external_id", i.ExternalID); err != nil {
		return err
	}
	if err := required("restaurant_external_id", i.RestaurantExternalID); err != nil {
		return err
	}
	return required("name", i.Name)
}

// Validate checks the fields a blog post row cannot be stored without.
func (p *BlogPost) Validate() error {
	if err := required("title", p.Title); err != nil {
		return err
	}
	return required("slug", p.Slug)
}

// Validate checks the fields a promotion row cannot be stored without.
func (p *Promotion) Validate() error {
	if err := required("title", p.Title); err != nil {
		return err
	}
	if p.ValidFrom.IsZero() || p.ValidUntil.IsZero() {
		return fmt.Errorf("%w: valid_from and valid_until are required", ErrInvalidRecord)
	}
	if p.ValidUntil.Before(p.ValidFrom) {
		return fmt.Errorf("%w: valid_until precedes valid_from", ErrInvalidRecord)
	}
	return nil
}
