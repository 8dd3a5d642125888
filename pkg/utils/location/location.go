// pkg/utils/location/location.go
package location

// İlan formundaki konum seçicileri için statik eyalet/şehir verisi.
// Pazar Hindistan olduğu için liste başlıca metro bölgeleriyle sınırlı;
// form serbest metin locality alanıyla detaylandırır.

type State struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var states = []State{
	{Code: "AP", Name: "Andhra Pradesh"},
	{Code: "DL", Name: "Delhi"},
	{Code: "GJ", Name: "Gujarat"},
	{Code: "HR", Name: "Haryana"},
	{Code: "KA", Name: "Karnataka"},
	{Code: "KL", Name: "Kerala"},
	{Code: "MH", Name: "Maharashtra"},
	{Code: "MP", Name: "Madhya Pradesh"},
	{Code: "PB", Name: "Punjab"},
	{Code: "RJ", Name: "Rajasthan"},
	{Code: "TN", Name: "Tamil Nadu"},
	{Code: "TS", Name: "Telangana"},
	{Code: "UP", Name: "Uttar Pradesh"},
	{Code: "WB", Name: "West Bengal"},
}

var citiesByState = map[string][]string{
	"AP": {"Visakhapatnam", "Vijayawada", "Guntur", "Tirupati"},
	"DL": {"New Delhi", "Dwarka", "Rohini", "Saket"},
	"GJ": {"Ahmedabad", "Surat", "Vadodara", "Rajkot", "Gandhinagar"},
	"HR": {"Gurugram", "Faridabad", "Panchkula", "Karnal"},
	"KA": {"Bengaluru", "Mysuru", "Mangaluru", "Hubballi"},
	"KL": {"Kochi", "Thiruvananthapuram", "Kozhikode", "Thrissur"},
	"MH": {"Mumbai", "Pune", "Nagpur", "Nashik", "Thane", "Navi Mumbai"},
	"MP": {"Indore", "Bhopal", "Gwalior", "Jabalpur"},
	"PB": {"Chandigarh", "Ludhiana", "Amritsar", "Mohali"},
	"RJ": {"Jaipur", "Jodhpur", "Udaipur", "Kota"},
	"TN": {"Chennai", "Coimbatore", "Madurai", "Tiruchirappalli"},
	"TS": {"Hyderabad", "Warangal", "Secunderabad"},
	"UP": {"Noida", "Lucknow", "Ghaziabad", "Kanpur", "Agra", "Varanasi"},
	"WB": {"Kolkata", "Howrah", "Durgapur", "Siliguri"},
}

// GetStates tüm eyaletleri döner
func GetStates() []State {
	return states
}

// GetCitiesByState eyalet koduna göre şehir listesini döner
func GetCitiesByState(stateCode string) []string {
	return citiesByState[stateCode]
}
