package managesieve_test

import (
	"context"
	"fmt"
	"log"

	"github.com/sievekit/managesieve"
)

func Example() {
	ctx := context.Background()

	client, err := managesieve.Dial(ctx, managesieve.Config{
		Host:      "mail.example.org",
		Username:  "bob",
		Password:  "secret",
		Mechanism: managesieve.MechPlain,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer client.Logout(ctx)

	err = client.ListScripts(ctx, func(s managesieve.Script) error {
		if s.Active {
			fmt.Printf("%s (active)\n", s.Name)
		} else {
			fmt.Println(s.Name)
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}
}
