// Package labels holds the display names, colors and icons shown next to the
// CRM's enumerations, in English and Arabic.
package labels

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"

	"brokercrm/server/internal/followup"
	"brokercrm/server/internal/models"
	"brokercrm/server/internal/tasks"
)

// ErrUnknownKind is returned for a lookup table that does not exist.
var ErrUnknownKind = errors.New("labels: unknown lookup kind")

// Kind names a lookup table.
type Kind string

const (
	KindClientPriority Kind = "client_priorities"
	KindClientStatus   Kind = "client_statuses"
	KindTaskPriority   Kind = "task_priorities"
	KindTaskType       Kind = "task_types"
	KindPropertyType   Kind = "property_types"
	KindPropertyStatus Kind = "property_statuses"
)

// Entry is one localized value of a lookup table.
type Entry struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Color string `json:"color,omitempty"`
	Icon  string `json:"icon,omitempty"`
}

type row struct {
	value       string
	english     string
	arabic      string
	color, icon string
}

var tables = map[Kind][]row{
	KindClientPriority: {
		{string(followup.PriorityLow), "Low", "منخفض", "gray", "heroicon-o-arrow-down"},
		{string(followup.PriorityMedium), "Medium", "متوسط", "blue", "heroicon-o-minus"},
		{string(followup.PriorityHigh), "High", "عالي", "yellow", "heroicon-o-arrow-up"},
		{string(followup.PriorityUrgent), "Urgent", "عاجل", "orange", "heroicon-o-exclamation-triangle"},
		{string(followup.PriorityVIP), "VIP", "VIP", "purple", "heroicon-o-star"},
	},
	KindClientStatus: {
		{string(models.ClientStatusLead), "Lead", "ليدر", "blue", "heroicon-o-user-plus"},
		{string(models.ClientStatusProspect), "Prospect", "محتمل", "yellow", "heroicon-o-user-circle"},
		{string(models.ClientStatusClient), "Client", "عميل", "green", "heroicon-o-user-check"},
		{string(models.ClientStatusInactive), "Inactive", "غير نشط", "gray", "heroicon-o-user-minus"},
		{string(models.ClientStatusBlacklisted), "Blacklisted", "محظور", "red", "heroicon-o-user-x-mark"},
	},
	KindTaskPriority: {
		{string(tasks.PriorityLow), "Low", "منخفض", "gray", ""},
		{string(tasks.PriorityMedium), "Medium", "متوسط", "blue", ""},
		{string(tasks.PriorityHigh), "High", "مرتفع", "orange", ""},
		{string(tasks.PriorityUrgent), "Urgent", "عاجل", "red", ""},
	},
	KindTaskType: {
		{string(tasks.TypeFollowUp), "Follow-up", "متابعة", "", ""},
		{string(tasks.TypePropertyViewing), "Property viewing", "معاينة عقار", "", ""},
		{string(tasks.TypeContractSigning), "Contract signing", "توقيع عقد", "", ""},
		{string(tasks.TypePaymentCollection), "Payment collection", "تحصيل دفعة", "", ""},
		{string(tasks.TypeOther), "Other", "أخرى", "", ""},
	},
	KindPropertyType: {
		{string(models.PropertyTypeApartment), "Apartment", "شقة", "", ""},
		{string(models.PropertyTypeVilla), "Villa", "فيلا", "", ""},
		{string(models.PropertyTypeTownhouse), "Townhouse", "تاونهوس", "", ""},
		{string(models.PropertyTypeDuplex), "Duplex", "دوبلكس", "", ""},
		{string(models.PropertyTypeLand), "Land", "أرض", "", ""},
		{string(models.PropertyTypeCommercial), "Commercial", "عقار تجاري", "", ""},
		{string(models.PropertyTypeChalet), "Chalet", "شاليه", "", ""},
	},
	KindPropertyStatus: {
		{string(models.PropertyStatusDraft), "Draft", "مسودة", "gray", ""},
		{string(models.PropertyStatusAvailable), "Available", "متاح", "green", ""},
		{string(models.PropertyStatusReserved), "Reserved", "محجوز", "yellow", ""},
		{string(models.PropertyStatusSold), "Sold", "مباع", "red", ""},
		{string(models.PropertyStatusRented), "Rented", "مؤجر", "blue", ""},
		{string(models.PropertyStatusInactive), "Inactive", "غير نشط", "gray", ""},
	},
}

// Kinds lists the available lookup tables.
func Kinds() []Kind {
	return []Kind{
		KindClientPriority,
		KindClientStatus,
		KindTaskPriority,
		KindTaskType,
		KindPropertyType,
		KindPropertyStatus,
	}
}

// Supported languages; the first is the fallback.
var supported = []language.Tag{language.English, language.Arabic}

// Catalog resolves lookup tables for a requested language.
type Catalog struct {
	matcher language.Matcher
}

func NewCatalog() *Catalog {
	return &Catalog{matcher: language.NewMatcher(supported)}
}

// Match picks the supported language closest to an Accept-Language header.
// Empty or malformed headers fall back to English.
func (c *Catalog) Match(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return supported[0]
	}
	_, index, _ := c.matcher.Match(tags...)
	return supported[index]
}

// Lookup returns the entries of kind in lang, in declaration order.
func (c *Catalog) Lookup(kind Kind, lang language.Tag) ([]Entry, error) {
	rows, ok := tables[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	arabic := lang == language.Arabic
	entries := make([]Entry, len(rows))
	for i, r := range rows {
		label := r.english
		if arabic {
			label = r.arabic
		}
		entries[i] = Entry{Value: r.value, Label: label, Color: r.color, Icon: r.icon}
	}
	return entries, nil
}

// Label returns the display name of one value, or the value itself when the
// table does not know it.
func (c *Catalog) Label(kind Kind, value string, lang language.Tag) string {
	entries, err := c.Lookup(kind, lang)
	if err != nil {
		return value
	}
	for _, e := range entries {
		if e.Value == value {
			return e.Label
		}
	}
	return value
}
