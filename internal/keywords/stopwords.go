package keywords

// stopwords holds general Indonesian function words plus a few product terms.
// The set is kept exactly as the dashboard has always used it; changing it
// silently changes keyword output.
var stopwords = setOf(
	"yang", "dan", "ini", "itu", "di", "dari", "untuk", "dengan", "ada",
	"tidak", "bukan", "akan", "sudah", "telah", "saat", "para", "juga",
	"masih", "bisa", "dapat", "harus", "kalau", "atau", "saja", "pun",
	"ke", "pada", "dalam", "sebagai", "bersama", "nya", "lebih", "kurang",
	"baik", "buruk", "sangat", "sekali", "membuat", "terlalu", "jadi",
	"lalu", "kemudian", "sama", "setelah", "sebelum", "mereka", "serta",
	"bagi", "antara", "oleh", "hingga", "demi", "semua", "macam", "jenis",
	"tiap", "setiap", "banyak", "sedikit", "sering", "jarang", "selalu",
	"hanya", "cuma", "karena", "sebab", "maka", "yaitu", "yakni", "adalah",
	"merupakan", "akan", "perlu", "wajib", "boleh", "dapat", "bisa", "mungkin",
	"pernah", "belum", "sudah", "telah", "sedang", "akan", "produk", "crocs", "sepatu",
)

func setOf(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// IsStopword reports whether w (already lowercased) is excluded from keywords.
func IsStopword(w string) bool {
	_, ok := stopwords[w]
	return ok
}
