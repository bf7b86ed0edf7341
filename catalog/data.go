package catalog

// Default returns the production catalog for the homeland merchant system.
// Names and misreads were collected from player-submitted screenshots; the
// correction table only ever maps a misread to a canonical name, never the
// other way around, which keeps Correct idempotent.
func Default() *Catalog {
	return New(Config{
		CoinName:  "家園幣",
		OtherName: "其他",
		Names: []string{
			"家園幣",
			"胡蘿蔔",
			"高麗菜",
			"番茄",
			"南瓜",
			"玉米",
			"小麥",
			"馬鈴薯",
			"草莓",
			"葡萄",
			"蘋果",
			"香蕉",
			"鳳梨",
			"蜂蜜",
			"牛奶",
			"雞蛋",
			"羊毛",
			"起司",
			"麵粉",
			"砂糖",
			"奶油",
			"果醬",
			"蘑菇",
			"木材",
			"石材",
			"鐵礦",
			"黏土",
			"布料",
			"皮革",
			"肥料",
			"飼料",
			"魚乾",
			"藥草",
			"花蜜",
			"金平糖",
			"其他",
		},
		Corrections: map[string]string{
			"家固幣": "家園幣",
			"家園币": "家園幣",
			"家囷幣": "家園幣",
			"冢園幣": "家園幣",
			"家園帶": "家園幣",
			"胡蘿葡": "胡蘿蔔",
			"胡羅蔔": "胡蘿蔔",
			"葫蘿蔔": "胡蘿蔔",
			"高麗栽": "高麗菜",
			"髙麗菜": "高麗菜",
			"番蒂": "番茄",
			"南爪": "南瓜",
			"玉釆": "玉米",
			"小変": "小麥",
			"馬鈴暑": "馬鈴薯",
			"革莓": "草莓",
			"草苺": "草莓",
			"匍萄": "葡萄",
			"蜂密": "蜂蜜",
			"峰蜜": "蜂蜜",
			"牛媽": "牛奶",
			"鷄蛋": "雞蛋",
			"起土": "起司",
			"麵紛": "麵粉",
			"沙糖": "砂糖",
			"磨菇": "蘑菇",
			"鐡礦": "鐵礦",
			"金平塘": "金平糖",
		},
		CurrencyItems: []string{
			"家園幣",
		},
		BarterOnlyItems: []string{
			"金平糖",
			"花蜜",
			"藥草",
		},
	})
}
