package stub

import (
	"github.com/shopspring/decimal"

	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/domain"
)

type catalogEntry struct {
	id, article, name, price string
	weighted                 bool
	fullPath                 string
	barcodes                 []string
}

var catalog = []catalogEntry{
	{"1", "HOT001", "Борщ с пампушками", "280.50", false, "Горячие блюда\\Супы", []string{"4600000000011", "4600000000012"}},
	{"2", "HOT002", "Солянка мясная", "320.00", false, "Горячие блюда\\Супы", []string{"4600000000021"}},
	{"3", "MAIN001", "Котлета по-киевски", "450.00", false, "Горячие блюда\\Основные блюда", nil},
	{"4", "MAIN002", "Стейк Рибай", "1200.00", true, "Горячие блюда\\Основные блюда", []string{"4600000000031", "4600000000032", "4600000000033"}},
	{"5", "SIDE001", "Картофель фри", "150.00", false, "Гарниры\\Картофель", nil},
	{"6", "SIDE002", "Овощи гриль", "180.00", true, "Гарниры\\Овощи", nil},
	{"7", "SAL001", "Цезарь с курицей", "380.00", false, "Салаты\\Классические", nil},
	{"8", "SAL002", "Греческий салат", "290.00", false, "Салаты\\Овощные", nil},
	{"9", "DES001", "Тирамису", "350.00", false, "Десерты\\Итальянские", []string{"4600000000041"}},
	{"10", "DES002", "Чизкейк Нью-Йорк", "320.00", false, "Десерты\\Американские", nil},
	{"11", "DES003", "Медовик", "280.00", true, "Десерты\\Русские", nil},
	{"12", "DRK001", "Кофе американо", "150.00", false, "Напитки\\Горячие", nil},
	{"13", "DRK002", "Чай черный с бергамотом", "120.00", false, "Напитки\\Горячие", nil},
	{"14", "DRK003", "Лимонад малина-мята", "200.00", false, "Напитки\\Прохладительные", nil},
	{"15", "WGH001", "Сыр пармезан (на развес)", "850.00", true, "Гастрономия\\Сыры", []string{"4600000000051", "4600000000052"}},
	{"16", "WGH002", "Колбаса сырокопченая", "650.00", true, "Гастрономия\\Колбасы", nil},
	{"17", "WGH003", "Конфеты шоколадные ассорти", "450.00", true, "Кондитерские изделия\\Конфеты", []string{"4600000000061"}},
	{"18", "SUS001", "Филадельфия ролл", "480.00", false, "Японская кухня\\Роллы", nil},
	{"19", "SUS002", "Калифорния ролл", "450.00", false, "Японская кухня\\Роллы", nil},
	{"20", "SUS003", "Сет 'Самурай' (32 шт)", "1850.00", false, "Японская кухня\\Сеты", nil},
}

// Catalog builds a fresh copy of the fixed demo menu.
func Catalog() []*domain.Dish {
	dishes := make([]*domain.Dish, 0, len(catalog))
	for _, entry := range catalog {
		dish, err := domain.NewDish(entry.id, entry.article, entry.name, decimal.RequireFromString(entry.price), entry.weighted, entry.fullPath)
		if err != nil {
			panic(err)
		}
		for _, code := range entry.barcodes {
			_ = dish.AddBarcode(code)
		}
		dishes = append(dishes, dish)
	}
	return dishes
}
