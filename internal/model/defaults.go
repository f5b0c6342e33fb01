package model

// DefaultBudgetTotal is the starting budget in baht.
const DefaultBudgetTotal = 500000

// DefaultProjectors is the projector count of a fresh production plan.
const DefaultProjectors = 1

// initialRituals is the fixed ceremony seed, ordered 1..8.
var initialRituals = []RitualTask{
	{ID: "1", Title: "พิธีสงฆ์ (Buddhist Ceremony)", Description: "การทำบุญตักบาตรและถวายสังฆทานเพื่อความเป็นสิริมงคล", Order: 1},
	{ID: "2", Title: "ขบวนแห่ขันหมาก (Khan Maak)", Description: "ฝ่ายชายแห่ขบวนนำสินสอดทองหมั้นมาบ้านฝ่ายหญิง", Order: 2},
	{ID: "3", Title: "พิธีเจรจาสินสอดและตรวจนับ (Engagement)", Description: "เฒ่าแก่เจรจาฝากฝังและเปิดพานตรวจนับสินสอด", Order: 3},
	{ID: "4", Title: "พิธีสวมแหวน (Ring Exchange)", Description: "การสวมแหวนหมั้นอย่างเป็นทางการต่อหน้าพยาน", Order: 4},
	{ID: "5", Title: "พิธีหลั่งน้ำพระพุทธมนต์ (Water Pouring)", Description: "พิธีรับน้ำสังข์จากญาติผู้ใหญ่เพื่อการเริ่มต้นชีวิตคู่", Order: 5},
	{ID: "6", Title: "พิธีไหว้ผู้ใหญ่ (Paying Respect)", Description: "การมอบของขวัญและขอพรจากญาติผู้ใหญ่ทั้งสองฝ่าย", Order: 6},
	{ID: "7", Title: "พิธีฉลองมงคลสมรส (Wedding Reception)", Description: "งานเลี้ยงฉลองช่วงเย็นสำหรับแขกเหรื่อ", Order: 7},
	{ID: "8", Title: "พิธีส่งตัวเข้าหอ (Nuptial Bed)", Description: "พิธีเรียบที่นอนและปูเตียงโดยผู้ใหญ่ที่มีคู่ครองครองรักกันยาวนาน", Order: 8},
}

// BudgetCategories are the suggested budget categories. Budget items may use
// any free-text category.
var BudgetCategories = []string{
	"สถานที่ (Venue)",
	"อาหารและเครื่องดื่ม (Catering)",
	"เครื่องแต่งกาย (Attire)",
	"ช่างภาพและวิดีโอ (Photo/Video)",
	"ของชำร่วยและบัตรเชิญ (Favors/Invites)",
	"ตกแต่งสถานที่ (Decor)",
	"แต่งหน้าทำผม (Makeup/Hair)",
	"อื่นๆ (Others)",
}

// InitialRituals returns a fresh copy of the ritual seed.
func InitialRituals() []RitualTask {
	return cloneSlice(initialRituals)
}

// DefaultCoupleNames returns the placeholder couple names.
func DefaultCoupleNames() CoupleNames {
	return CoupleNames{Groom: "ก้อง", Bride: "แก้ว"}
}

// DefaultTheme returns the starting decor theme.
func DefaultTheme() Theme {
	return Theme{
		Name:           "Traditional Elegance",
		PrimaryColor:   "#d4af37",
		SecondaryColor: "#ffffff",
	}
}

// DefaultProduction returns an empty production plan.
func DefaultProduction() Production {
	return Production{
		Projectors: DefaultProjectors,
		Tasks:      []ProductionTask{},
	}
}

// DefaultRecord returns the record used when nothing has been persisted yet.
func DefaultRecord() WeddingRecord {
	return WeddingRecord{
		CoupleNames: DefaultCoupleNames(),
		BudgetTotal: DefaultBudgetTotal,
		Guests:      []Guest{},
		BudgetItems: []BudgetItem{},
		Rituals:     InitialRituals(),
		Gallery:     []GalleryImage{},
		Theme:       DefaultTheme(),
		Tables:      []Table{},
		Catering:    []MenuItem{},
		Production:  DefaultProduction(),
	}
}
