package unisis

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func readFixture(t testing.TB, name string) string {
	data, err := os.ReadFile("testdata/" + name)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestParseWeeklyMenu(t *testing.T) {
	snapshot, err := ParseWeeklyMenu(readFixture(t, "weekly_menu.html"))
	require.NoError(t, err)

	require.Equal(t,
		"Mercimek,Çorbası,Izgara,Köfte,Pirinç,Pilavı,Ayran",
		snapshot.Staff[Monday].Lunch,
	)
	require.Equal(t,
		"Ezogelin,Çorbası,Tavuk,Sote,Bulgur,Pilavı",
		snapshot.Staff[Monday].Dinner,
	)
	// the staff table has no breakfast row by upstream convention
	require.Empty(t, snapshot.Staff[Monday].Breakfast)

	require.Equal(t,
		"Beyaz Peynir,Zeytin,Bal,Tereyağı,Çay",
		snapshot.Dormitory[Monday].Breakfast,
	)
	require.Equal(t,
		"Domates Çorbası,Karnıyarık,Makarna,Yoğurt",
		snapshot.Dormitory[Monday].Lunch,
	)
	require.Equal(t,
		"Sebze Çorbası,Kuru Köfte,Pilav",
		snapshot.Dormitory[Sunday].Dinner,
	)

	// weekend sections carry no staff table at all; the slots stay at
	// their empty defaults rather than erroring
	require.Equal(t, Meals{}, snapshot.Staff[Saturday])
	require.Equal(t, Meals{}, snapshot.Staff[Sunday])

	for _, day := range Weekdays {
		_, staffOk := snapshot.Staff[day]
		_, dormOk := snapshot.Dormitory[day]
		require.True(t, staffOk, "staff schedule missing %s", day)
		require.True(t, dormOk, "dormitory schedule missing %s", day)
	}
}

func TestParseWeeklyMenuDeterministic(t *testing.T) {
	input := readFixture(t, "weekly_menu.html")

	first, err := ParseWeeklyMenu(input)
	require.NoError(t, err)
	second, err := ParseWeeklyMenu(input)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestParseWeeklyMenuSparse(t *testing.T) {
	snapshot, err := ParseWeeklyMenu(readFixture(t, "sparse_menu.html"))
	require.NoError(t, err)

	require.Equal(t, "Rice,Soup", snapshot.Staff[Monday].Lunch)
	require.Empty(t, snapshot.Staff[Monday].Dinner)
	require.Equal(t, Meals{}, snapshot.Dormitory[Monday])
	// a day section with no tables is a valid, fully empty day
	require.Equal(t, Meals{}, snapshot.Staff[Tuesday])
	require.Equal(t, Meals{}, snapshot.Dormitory[Tuesday])
}

func TestParseWeeklyMenuMalformed(t *testing.T) {
	_, err := ParseWeeklyMenu("")
	require.ErrorIs(t, err, ErrMalformedInput)

	_, err = ParseWeeklyMenu("   \n\t  ")
	require.ErrorIs(t, err, ErrMalformedInput)
}

func TestParseWeeklyMenuUnknownAnchorsSkipped(t *testing.T) {
	input := `<html><body>
		<div id="Bayram"><h3>Personel</h3>
			<table><tr><th>Öğle Yemeği</th><td>Pilav</td></tr></table>
		</div>
		<div id="Pazartesi"><h3>Personel</h3>
			<table><tr><th>Bilinmeyen Öğün</th><td>Pilav</td></tr>
			<tr><th>Öğle Yemeği</th><td>Pilav</td></tr></table>
		</div>
	</body></html>`

	snapshot, err := ParseWeeklyMenu(input)
	require.NoError(t, err)

	// the unknown day anchor and the unknown meal label both vanish
	// silently instead of failing the parse
	require.Equal(t, "Pilav", snapshot.Staff[Monday].Lunch)
	require.Empty(t, snapshot.Staff[Monday].Breakfast)
	require.Empty(t, snapshot.Staff[Monday].Dinner)
}
