package modes

var drawPrompts = []string{
	"cat", "dog", "spaceship", "pizza", "robot", "dragon", "house", "tree",
	"car", "fish", "sun", "moon", "flower", "guitar", "mountain", "boat",
	"airplane", "snowman", "crown", "sword", "castle", "ghost", "alien",
	"dinosaur", "butterfly", "rainbow", "hamburger", "ice cream", "rocket",
	"skull", "heart", "star", "lightning bolt", "tornado", "volcano",
	"octopus", "penguin", "cactus", "mushroom", "diamond", "key",
	"umbrella", "bicycle", "clock", "eye", "hand", "spider", "bat",
	"whale", "elephant", "giraffe", "monkey", "snake", "frog",
}

var typeRaceTexts = []string{
	"The quick brown fox jumps over the lazy dog near the riverbank.",
	"She sells seashells by the seashore every single sunny Saturday.",
	"Pack my box with five dozen liquor jugs before midnight tonight.",
	"How vexingly quick daft zebras jump over the sleeping brown dog.",
	"The five boxing wizards jumped quickly over the tall wooden fence.",
	"A wizard's job is to vex chumps quickly in the dense dark fog.",
	"Bright vixens jump and dozy fowl quack near the old brick wall.",
	"Two driven jocks help fax my big quiz to the wrong postal address.",
	"The lazy programmer debugged the code while drinking cold coffee.",
	"Pixelated robots dance through neon streets under a digital moon.",
	"Quantum computers will eventually solve problems we cannot imagine.",
	"Every morning the old cat sits by the window watching birds fly past.",
	"The ancient library held secrets that nobody had discovered in years.",
	"Dancing fireflies lit up the garden like tiny floating lanterns.",
	"A mysterious stranger arrived in town just before the storm began.",
}

var wyrQuestions = []WyrQuestion{
	{A: "Always have to sing instead of speak", B: "Always have to dance instead of walk"},
	{A: "Have fingers as long as your legs", B: "Have legs as long as your fingers"},
	{A: "Be able to talk to animals", B: "Be able to speak every human language"},
	{A: "Have a rewind button for your life", B: "Have a pause button for your life"},
	{A: "Live in a treehouse", B: "Live in a submarine"},
	{A: "Only eat pizza forever", B: "Never eat pizza again"},
	{A: "Be invisible but always naked", B: "Be visible but always in a clown costume"},
	{A: "Fight 100 duck-sized horses", B: "Fight 1 horse-sized duck"},
	{A: "Have no elbows", B: "Have no knees"},
	{A: "Sweat maple syrup", B: "Cry lemonade"},
	{A: "Always feel like you need to sneeze", B: "Always have a song stuck in your head"},
	{A: "Have taste buds on your hands", B: "Have taste buds on your feet"},
	{A: "Be a famous person's personal assistant", B: "Be a regular person who is famous"},
	{A: "Have WiFi everywhere you go", B: "Have free coffee everywhere you go"},
	{A: "Know how you will die", B: "Know when you will die"},
	{A: "Be able to fly but only 1 foot off the ground", B: "Be able to teleport but only 10 feet at a time"},
	{A: "Live in a world with no internet", B: "Live in a world with no air conditioning"},
	{A: "Have a dragon but it's tiny like a hamster", B: "Have a hamster but it's huge like a dragon"},
	{A: "Eat a spoonful of wasabi", B: "Eat a spoonful of ghost pepper sauce"},
	{A: "Be stuck in an elevator for 3 hours", B: "Be stuck in traffic for 6 hours"},
	{A: "Have all traffic lights be green for you", B: "Never have to wait in line again"},
	{A: "Be a reverse centaur (horse head, human body)", B: "Be a reverse mermaid (fish head, human legs)"},
	{A: "Only be able to whisper", B: "Only be able to shout"},
	{A: "Have hands for feet", B: "Have feet for hands"},
	{A: "Live in the Harry Potter universe", B: "Live in the Star Wars universe"},
}

// Seeded picsum URLs so both participants see the same image
var describeImages = []DescribeImage{
	{URL: "https://picsum.photos/seed/weird1/400/300", ID: "weird1"},
	{URL: "https://picsum.photos/seed/abstract2/400/300", ID: "abstract2"},
	{URL: "https://picsum.photos/seed/strange3/400/300", ID: "strange3"},
	{URL: "https://picsum.photos/seed/odd4/400/300", ID: "odd4"},
	{URL: "https://picsum.photos/seed/curious5/400/300", ID: "curious5"},
	{URL: "https://picsum.photos/seed/mystery6/400/300", ID: "mystery6"},
	{URL: "https://picsum.photos/seed/peculiar7/400/300", ID: "peculiar7"},
	{URL: "https://picsum.photos/seed/bizarre8/400/300", ID: "bizarre8"},
	{URL: "https://picsum.photos/seed/funky9/400/300", ID: "funky9"},
	{URL: "https://picsum.photos/seed/wacky10/400/300", ID: "wacky10"},
	{URL: "https://picsum.photos/seed/zany11/400/300", ID: "zany11"},
	{URL: "https://picsum.photos/seed/quirk12/400/300", ID: "quirk12"},
}

var jokePrompts = []string{
	"Write your funniest original joke!",
	"Make us laugh! Write a joke about anything.",
	"Hit us with your best joke!",
	"Time to be funny: write a joke!",
	"Show off your comedy skills with a joke!",
}
