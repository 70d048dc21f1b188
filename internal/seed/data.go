package seed

type sampleItem struct {
	Name        string
	Category    string
	Picture     string
	Description string
}

var maleUsers = []string{
	"George Tanaka",
	"Johnny Utah",
	"Troy Armstong",
	"Tennessee Williams",
	"Garet Jax",
	"Gandalf the Grey",
	"Saruman the White",
}

var femaleUsers = []string{
	"Meryl Streep",
	"Kim Bigassian",
	"Sarah Failin",
	"Amy Adams",
	"Keira Knightley",
	"Jessica Chastain",
	"Jennifer Lawrence",
}

const (
	maleAvatar   = "images/male_avatar.png"
	femaleAvatar = "images/female_avatar.png"
)

var categoryNames = []string{
	"Snowboarding",
	"Cycling",
	"Hockey",
	"Soccer",
	"Frisbee",
	"Baseball",
	"Basketball",
	"Rock Climbing",
	"Foosball",
	"Skating",
}

var sampleItems = []sampleItem{
	{"Snowboard", "Snowboarding", "images/snowboard.png",
		"An all-mountain board for groomed runs, backcountry powder and the park. Directional or twin tip, it forgives beginners who have not picked a favourite terrain yet."},
	{"Bicycle", "Cycling", "images/racing-bicycle.png",
		"Two wheels, one chain and a saddle. Ride it where you like."},
	{"Stick", "Hockey", "images/ice-hockey-stick.png",
		"Shoots pucks, hooks opponents and starts arguments on the ice. Teeth sold separately."},
	{"Shinguards", "Soccer", "images/shinguards.png",
		"Keeps your shins in one piece after an afternoon of attacking the other end of the pitch."},
	{"Frisbee", "Frisbee", "images/frisbee.png",
		"What flies through the air and really doesn't care? Mind the dog."},
	{"Bat", "Baseball", "images/baseball-bat.png",
		"Long after the season is over your trusty bat is still there for you."},
	{"Jersey", "Soccer", "images/jersey.png",
		"Put it on and every fan in the stand knows which side you are on."},
	{"Cleats", "Soccer", "images/cleats.jpg",
		"Keeps you well grounded on grass. Not recommended for the hockey rink."},
	{"Goggles", "Snowboarding", "images/goggles.jpg",
		"Shields your eyes from stray snowballs and lets you see the pine tree just before you meet it."},
}
