package doctype

// Template bawaan yang diimpor sekali per deployment untuk mengisi katalog
// kosong. Semua entri dibuat sebagai tipe akar (parent_id kosong); urutan
// dipertahankan agar hasil impor deterministik.

type SeedEntry struct {
	Name     string
	Category string
}

var documentTemplates = []struct {
	Category string
	Names    []string
}{
	{
		Category: "Office Documents",
		Names: []string{
			"Certificate of Incorporation",
			"Business License",
			"Commercial Register Extract",
			"Chamber of Commerce Certificate",
			"Tax Registration Certificate",
			"VAT Certificate",
			"Office Lease Agreement",
			"Fire Safety Certificate",
			"Civil Defense Certificate",
			"Municipality License",
			"Company Insurance Policy",
			"ISO 9001 Certificate",
		},
	},
	{
		Category: "Employee Documents",
		Names: []string{
			"Passport",
			"Residence Visa",
			"Work Permit",
			"Labour Card",
			"Emirates ID",
			"Medical Insurance Card",
			"Employment Contract",
			"Educational Certificate",
			"Professional License",
			"Driving License",
			"Medical Fitness Certificate",
			"Police Clearance Certificate",
			"Seaman Book",
			"Offshore Survival Certificate",
			"H2S Awareness Certificate",
		},
	},
	{
		Category: "Port Passes",
		Names: []string{
			"Port Entry Permit",
			"CICPA Pass",
			"Gate Pass",
			"Security Clearance",
			"Dock Access Card",
			"Terminal Access Pass",
			"Free Zone Pass",
			"Customs Pass",
		},
	},
}

// SeedEntries menghasilkan satu entri per (category, name) pada template,
// semuanya root. Tidak idempotent: pemanggil yang menjaga agar katalog
// non-kosong tidak di-seed dua kali.
func SeedEntries() []SeedEntry {
	var entries []SeedEntry
	for _, group := range documentTemplates {
		for _, name := range group.Names {
			entries = append(entries, SeedEntry{Name: name, Category: group.Category})
		}
	}
	return entries
}

// DefaultCategories dipakai UI untuk menampilkan pilihan kategori saat
// katalog masih kosong.
func DefaultCategories() []string {
	categories := make([]string, 0, len(documentTemplates))
	for _, group := range documentTemplates {
		categories = append(categories, group.Category)
	}
	return categories
}
