// Package augments maps arena augment ids onto their asset names. The id
// space comes from the match-history payloads; icon assets are hosted on the
// community CDN under the listed slug.
package augments

import "fmt"

// cdnVersion pins the asset path. Bump when the CDN rotates versions.
const cdnVersion = "15.19"

// Name returns the asset slug for an augment id.
func Name(id int) (string, bool) {
	name, ok := idToName[id]
	return name, ok
}

// IconURL returns the CDN icon URL for an augment id, or "" when the id is
// unknown.
func IconURL(id int) string {
	name, ok := idToName[id]
	if !ok {
		return ""
	}
	return fmt.Sprintf("https://raw.communitydragon.org/%s/game/assets/ux/cherry/augments/icons/%s_large.png", cdnVersion, name)
}

var idToName = map[int]string{
	1001: "acceleratingsorcery", 1002: "apexinventor", 1003: "canttouchthis", 1004: "backtobasics",
	1005: "bannerofcommand", 1006: "bladewaltz", 1007: "bluntforce", 1009: "buffbuddies",
	1010: "cannonfodder", 1011: "canttouchthis", 1012: "castle", 1013: "celestialbody",
	1014: "chauffeur", 1015: "circleofdeath", 1016: "combomaster", 1017: "contractkiller",
	1018: "courageofthecolossus", 1019: "dashing", 1020: "dawnbringersresolve", 1021: "defensivemaneuvers",
	1022: "deft", 1023: "demonsdance", 1024: "dieanotherday", 1025: "divebomber",
	1026: "dontblink", 1027: "earthwake", 1028: "erosion", 1029: "etherealweapon",
	1030: "eureka", 1032: "executioner", 1033: "extendoarm", 1034: "fallenaegis",
	1035: "feeltheburn", 1036: "firebrand", 1037: "firstaidkit", 1038: "frombeginningtoend",
	1039: "frostwraith", 1040: "frozenfoundations", 1041: "goliath", 1042: "guiltypleasure",
	1043: "nowyouseeme", 1044: "icecold", 1045: "infernalconduit", 1046: "infernalsoul",
	1047: "itscritical", 1048: "jeweledgauntlet", 1049: "juicebox", 1050: "keystoneconjurer",
	1051: "lightemup", 1052: "lightningstrikes", 1053: "madscientist", 1054: "masterofduality",
	1056: "mindtomatter", 1057: "mountainsoul", 1058: "mysticpunch", 1060: "oceansoul",
	1061: "okboomerang", 1062: "omnisoul", 1063: "outlawsgrit", 1064: "perseverance",
	1065: "phenomenalevil", 1066: "quantumcomputing", 1067: "rabblerousing", 1068: "recursion",
	1069: "repulsor", 1070: "restlessrestoration", 1071: "scopierweapons", 1072: "searingdawn",
	1073: "shadowrunner", 1074: "shrinkray", 1075: "slowcooker", 1076: "sonicboom",
	1077: "soulsiphon", 1078: "spiritlink", 1079: "symphonyofwar", 1080: "tankitorleaveit",
	1081: "tapdancer", 1082: "thebrutalizer", 1084: "threadtheneedle", 1085: "tormentor",
	1086: "trueshotprodigy", 1087: "typhoon", 1088: "ultimaterevolution", 1089: "vanish",
	1090: "vengeance", 1092: "vulnerability", 1093: "warmuproutine", 1094: "willingsacrifice",
	1096: "wisdomofages", 1097: "witchfulthinking", 1098: "withhaste", 1102: "dontchase",
	1103: "breadandbutter", 1104: "minionmancer", 1105: "homeguard", 1107: "twicethrice",
	1108: "selfdestruct", 1109: "oathsworn", 1110: "clothesline", 1112: "ultimateunstoppable",
	1113: "skilledsniper", 1115: "scopiestweapons", 1116: "flashy", 1118: "criticalhealing",
	1120: "servebeyonddeath", 1123: "summonersroulette", 1125: "raidboss", 1129: "marksmage",
	1133: "magicmissile", 1134: "drawyoursword", 1135: "spellwake", 1136: "slaparound",
	1138: "goredrink", 1141: "allforyou", 1149: "impassable", 1150: "breadandjam",
	1151: "breadandcheese", 1152: "quest_steelyourheart", 1154: "quest_urfschampion", 1156: "quest_woogletswitchcap",
	1165: "restart", 1166: "chainlightning", 1170: "scopedweapons", 1171: "dematerialize",
	1172: "mirrorimage", 1174: "lasereyes", 1175: "parasiticrelationship", 1176: "snowballfight",
	1177: "nestingdoll", 1180: "bigbrain", 1181: "heavyhitter", 1187: "flashbang",
	1192: "quest_angelofretribution", 1193: "centeroftheuniverse", 1194: "feymagic", 1195: "giantslayer",
	1198: "holyfire", 1200: "bloodbrother", 1204: "stackosaurusrex", 1205: "adapt",
	1206: "escapade", 1207: "holdverystill", 1208: "orbitallaser", 1211: "itskillingtime",
	1214: "spintowin", 1215: "darkblessing", 1216: "plaguebearer", 1217: "deathtouch",
	1218: "desecrator", 1219: "doomsayer", 1220: "fanthehammer", 1221: "trailblazer",
	1222: "fruitarian", 1223: "summonerrevolution", 1224: "quest_prismaticegg", 1225: "dualwield",
	1226: "stats", 1227: "statsonstats", 1228: "statsonstatsonstats", 1229: "firesale",
	1231: "lightwarden", 1232: "slimetime", 1233: "ultimaterevolution", 1234: "thiefsgloves",
	1236: "tricksterdemon", 1237: "transmutegold", 1238: "transmuteprismatic", 1239: "symbioticmutation",
	1240: "parasiticmutation", 1241: "hattrick", 1242: "juicepress", 1243: "transmutechaos",
	1250: "slowandsteady", 1251: "numbtopain", 1301: "slowactingpainkillers", 1302: "gohsacrificefor",
	1303: "gohsacrificeforgold", 1304: "gohsacrificeforprismatic", 1305: "legday", 1308: "firfox",
	1309: "andmyaxe", 1310: "clowncollege", 1311: "overflow", 1312: "wellberightback",
	1313: "tank_engine", 1317: "pandoras_box", 1318: "mad_hatter", 1319: "threesacredtreasures",
	1320: "calculated_risk", 1321: "bodyguard", 1322: "augmented_power", 1323: "cerberus",
	1324: "bravestofthebrave", 1326: "spirit_infusion", 1335: "goldrend", 1349: "ultimateawakening",
	1404: "augment404", 1405: "augment405",}
