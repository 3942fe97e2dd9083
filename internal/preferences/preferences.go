// Package preferences reconciles a visitor's locally stored settings with the
// copy kept on their profile.
package preferences

import (
	"github.com/chimgan/sales/internal/apperr"
	"github.com/chimgan/sales/internal/i18n"
	"github.com/chimgan/sales/internal/models"
)

// Prefs are the per-visitor display settings. Zero values mean "not set".
type Prefs struct {
	Language          string          `json:"language,omitempty"`
	HomeViewMode      models.ViewMode `json:"homeViewMode,omitempty"`
	HomeItemsPerPage  int             `json:"homeItemsPerPage,omitempty"`
	HideWelcomeBanner *bool           `json:"hideWelcomeBanner,omitempty"`
}

// FromUser extracts the preferences stored on a profile.
func FromUser(u *models.User) Prefs {
	if u == nil {
		return Prefs{}
	}
	return Prefs{
		Language:          u.Language,
		HomeViewMode:      u.HomeViewMode,
		HomeItemsPerPage:  u.HomeItemsPerPage,
		HideWelcomeBanner: u.HideWelcomeBanner,
	}
}

// Resolve merges the two sources field by field; the profile wins where it has a value.
func Resolve(profile, local Prefs) Prefs {
	out := local
	if profile.Language != "" {
		out.Language = profile.Language
	}
	if profile.HomeViewMode != "" {
		out.HomeViewMode = profile.HomeViewMode
	}
	if profile.HomeItemsPerPage != 0 {
		out.HomeItemsPerPage = profile.HomeItemsPerPage
	}
	if profile.HideWelcomeBanner != nil {
		out.HideWelcomeBanner = profile.HideWelcomeBanner
	}
	return out
}

// WithDefaults fills whatever is still unset.
func WithDefaults(p Prefs, lang i18n.Language) Prefs {
	if p.Language == "" {
		p.Language = string(lang)
	}
	if p.HomeViewMode == "" {
		p.HomeViewMode = models.ViewModeGrid
	}
	if p.HomeItemsPerPage == 0 {
		p.HomeItemsPerPage = models.ItemsPerPageOptions[0]
	}
	if p.HideWelcomeBanner == nil {
		hide := false
		p.HideWelcomeBanner = &hide
	}
	return p
}

// Validate rejects values outside the allowed options. Unset fields pass.
func (p Prefs) Validate() error {
	if p.Language != "" {
		if _, ok := i18n.Parse(p.Language); !ok {
			return apperr.InvalidArg("unsupported language")
		}
	}
	if p.HomeViewMode != "" && !p.HomeViewMode.IsValid() {
		return apperr.InvalidArg("view mode must be grid or list")
	}
	if p.HomeItemsPerPage != 0 && !models.IsValidItemsPerPage(p.HomeItemsPerPage) {
		return apperr.InvalidArg("items per page must be one of 10, 20, 50, 100")
	}
	return nil
}
